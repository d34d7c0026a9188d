package usecase

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

// ProjectUseCase casos de uso CRUD para proyectos.
type ProjectUseCase struct {
	projectRepo repository.ProjectRepository
	dealRepo    repository.DealRepository
	leadRepo    repository.LeadRepository
	userRepo    repository.UserRepository
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(
	projectRepo repository.ProjectRepository,
	dealRepo repository.DealRepository,
	leadRepo repository.LeadRepository,
	userRepo repository.UserRepository,
) *ProjectUseCase {
	return &ProjectUseCase{projectRepo: projectRepo, dealRepo: dealRepo, leadRepo: leadRepo, userRepo: userRepo}
}

// Create crea un proyecto. deal_id y lead_id, si vienen, deben referenciar
// registros no eliminados al momento de la escritura; progress en [0,100].
func (uc *ProjectUseCase) Create(in dto.CreateProjectRequest, userID string) (*dto.ProjectResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.DealID != nil && *in.DealID != "" {
		deal, err := uc.dealRepo.GetByID(*in.DealID)
		if err != nil {
			return nil, err
		}
		if deal == nil {
			return nil, domain.ErrDealNotFound
		}
	} else {
		in.DealID = nil
	}
	if in.LeadID != nil && *in.LeadID != "" {
		lead, err := uc.leadRepo.GetByID(*in.LeadID)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, domain.ErrLeadNotFound
		}
	} else {
		in.LeadID = nil
	}
	if in.Progress < 0 || in.Progress > 100 {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = "planning"
	}
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	now := time.Now()
	project := &entity.Project{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Budget:      in.Budget,
		SpentAmount: in.SpentAmount,
		Currency:    currency,
		Progress:    in.Progress,
		DealID:      in.DealID,
		LeadID:      in.LeadID,
		AssignedTo:  in.AssignedTo,
		TeamMembers: in.TeamMembers,
		CreatedBy:   refOrNil(userID),
		Tags:        in.Tags,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.projectRepo.Create(project); err != nil {
		return nil, err
	}
	return uc.detailResponse(project.ID)
}

// List lista proyectos no eliminados según el objeto de búsqueda; página y
// conteo total corren en paralelo. Los team_members de toda la página se
// expanden en un solo viaje.
func (uc *ProjectUseCase) List(in dto.ProjectSearchRequest) (*dto.ProjectListResponse, error) {
	f := in.Filter()
	p := in.Pagination()

	var (
		details []*entity.ProjectDetail
		total   int
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		details, err = uc.projectRepo.ListDetails(f, p)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = uc.projectRepo.Count(f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := uc.fillTeamMembers(details); err != nil {
		return nil, err
	}

	items := make([]dto.ProjectResponse, 0, len(details))
	for _, d := range details {
		items = append(items, *toProjectResponse(d))
	}
	return &dto.ProjectListResponse{
		ProjectList: items,
		PageCount:   dto.PageCount(total, p.Limit),
		TotalCount:  total,
	}, nil
}

// GetByID obtiene un proyecto no eliminado con referencias expandidas.
func (uc *ProjectUseCase) GetByID(id string) (*dto.ProjectResponse, error) {
	detail, err := uc.projectRepo.GetDetailByID(id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrProjectNotFound
	}
	if err := uc.fillTeamMembers([]*entity.ProjectDetail{detail}); err != nil {
		return nil, err
	}
	return toProjectResponse(detail), nil
}

// Update aplica un update parcial; referencias y rangos presentes se re-validan.
func (uc *ProjectUseCase) Update(id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := uc.projectRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}
	if in.DealID.Set && in.DealID.Value != nil {
		deal, err := uc.dealRepo.GetByID(*in.DealID.Value)
		if err != nil {
			return nil, err
		}
		if deal == nil {
			return nil, domain.ErrDealNotFound
		}
	}
	if in.LeadID.Set && in.LeadID.Value != nil {
		lead, err := uc.leadRepo.GetByID(*in.LeadID.Value)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, domain.ErrLeadNotFound
		}
	}
	if in.Progress != nil && (*in.Progress < 0 || *in.Progress > 100) {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != nil {
		project.Name = *in.Name
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if in.Status != nil {
		project.Status = *in.Status
	}
	if in.Priority != nil {
		project.Priority = *in.Priority
	}
	if in.StartDate.Set {
		project.StartDate = in.StartDate.Value
	}
	if in.EndDate.Set {
		project.EndDate = in.EndDate.Value
	}
	if in.ActualEndDate.Set {
		project.ActualEndDate = in.ActualEndDate.Value
	}
	if in.Budget != nil {
		project.Budget = *in.Budget
	}
	if in.SpentAmount != nil {
		project.SpentAmount = *in.SpentAmount
	}
	if in.Currency != nil {
		project.Currency = *in.Currency
	}
	if in.Progress != nil {
		project.Progress = *in.Progress
	}
	if in.DealID.Set {
		project.DealID = in.DealID.Value
	}
	if in.LeadID.Set {
		project.LeadID = in.LeadID.Value
	}
	if in.AssignedTo.Set {
		project.AssignedTo = in.AssignedTo.Value
	}
	if in.TeamMembers != nil {
		project.TeamMembers = *in.TeamMembers
	}
	if in.Tags != nil {
		project.Tags = *in.Tags
	}
	if in.Notes != nil {
		project.Notes = *in.Notes
	}
	project.UpdatedAt = time.Now()
	if err := uc.projectRepo.Update(project); err != nil {
		return nil, err
	}
	return uc.detailResponse(project.ID)
}

// Delete marca el proyecto como eliminado (borrado lógico).
func (uc *ProjectUseCase) Delete(id string) error {
	return uc.projectRepo.SoftDelete(id)
}

func (uc *ProjectUseCase) detailResponse(id string) (*dto.ProjectResponse, error) {
	detail, err := uc.projectRepo.GetDetailByID(id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrProjectNotFound
	}
	if err := uc.fillTeamMembers([]*entity.ProjectDetail{detail}); err != nil {
		return nil, err
	}
	return toProjectResponse(detail), nil
}

// fillTeamMembers expande team_members de todos los detalles en un solo viaje
// al repositorio de usuarios, preservando el orden de cada proyecto.
func (uc *ProjectUseCase) fillTeamMembers(details []*entity.ProjectDetail) error {
	idSet := make(map[string]struct{})
	for _, d := range details {
		for _, id := range d.Project.TeamMembers {
			idSet[id] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return nil
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	summaries, err := uc.userRepo.SummariesByIDs(ids)
	if err != nil {
		return err
	}
	byID := make(map[string]entity.UserSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	for _, d := range details {
		for _, id := range d.Project.TeamMembers {
			if s, ok := byID[id]; ok {
				d.TeamMembers = append(d.TeamMembers, s)
			}
		}
	}
	return nil
}

func toProjectResponse(d *entity.ProjectDetail) *dto.ProjectResponse {
	if d == nil {
		return nil
	}
	members := d.TeamMembers
	if members == nil {
		members = []entity.UserSummary{}
	}
	tags := d.Project.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.ProjectResponse{
		ID:            d.Project.ID,
		Name:          d.Project.Name,
		Description:   d.Project.Description,
		Status:        d.Project.Status,
		Priority:      d.Project.Priority,
		StartDate:     d.Project.StartDate,
		EndDate:       d.Project.EndDate,
		ActualEndDate: d.Project.ActualEndDate,
		Budget:        d.Project.Budget,
		SpentAmount:   d.Project.SpentAmount,
		Currency:      d.Project.Currency,
		Progress:      d.Project.Progress,
		Deal:          d.Deal,
		Lead:          d.Lead,
		AssignedTo:    d.AssignedTo,
		TeamMembers:   members,
		CreatedBy:     d.CreatedBy,
		Tags:          tags,
		Notes:         d.Project.Notes,
		CreatedAt:     d.Project.CreatedAt,
		UpdatedAt:     d.Project.UpdatedAt,
	}
}
