package usecase

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LeadUseCase casos de uso CRUD para leads más la conversión Lead→Deal.
type LeadUseCase struct {
	leadRepo repository.LeadRepository
	dealRepo repository.DealRepository
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(leadRepo repository.LeadRepository, dealRepo repository.DealRepository) *LeadUseCase {
	return &LeadUseCase{leadRepo: leadRepo, dealRepo: dealRepo}
}

// Create crea un lead. El email debe ser único entre los leads no eliminados.
func (uc *LeadUseCase) Create(in dto.CreateLeadRequest, userID string) (*dto.LeadResponse, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.ContactNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	if !emailRegexp.MatchString(in.Email) {
		return nil, domain.ErrInvalidEmail
	}
	existing, err := uc.leadRepo.GetByEmail(in.Email, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	status := in.Status
	if status == "" {
		status = "new"
	}
	now := time.Now()
	lead := &entity.Lead{
		ID:            uuid.New().String(),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		ContactNumber: in.ContactNumber,
		CompanyName:   in.CompanyName,
		JobTitle:      in.JobTitle,
		Source:        in.Source,
		Status:        status,
		Notes:         in.Notes,
		AssignedTo:    in.AssignedTo,
		CreatedBy:     refOrNil(userID),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.leadRepo.Create(lead); err != nil {
		return nil, err
	}
	detail, err := uc.leadRepo.GetDetailByID(lead.ID)
	if err != nil {
		return nil, err
	}
	return toLeadResponse(detail), nil
}

// List lista leads no eliminados según el objeto de búsqueda. La página y el
// conteo total son lecturas independientes y corren en paralelo.
func (uc *LeadUseCase) List(in dto.LeadSearchRequest) (*dto.LeadListResponse, error) {
	f := in.Filter()
	p := in.Pagination()

	var (
		details []*entity.LeadDetail
		total   int
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		details, err = uc.leadRepo.ListDetails(f, p)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = uc.leadRepo.Count(f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]dto.LeadResponse, 0, len(details))
	for _, d := range details {
		items = append(items, *toLeadResponse(d))
	}
	return &dto.LeadListResponse{
		LeadList:   items,
		PageCount:  dto.PageCount(total, p.Limit),
		TotalCount: total,
	}, nil
}

// GetByID obtiene un lead no eliminado con referencias expandidas.
func (uc *LeadUseCase) GetByID(id string) (*dto.LeadResponse, error) {
	detail, err := uc.leadRepo.GetDetailByID(id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrLeadNotFound
	}
	return toLeadResponse(detail), nil
}

// Update aplica un update parcial: solo los campos presentes cambian. Si el
// email cambia se re-valida formato y unicidad excluyendo el propio registro.
func (uc *LeadUseCase) Update(id string, in dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	lead, err := uc.leadRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.ErrLeadNotFound
	}
	if in.Email != nil {
		if !emailRegexp.MatchString(*in.Email) {
			return nil, domain.ErrInvalidEmail
		}
		other, err := uc.leadRepo.GetByEmail(*in.Email, lead.ID)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrEmailAlreadyExists
		}
		lead.Email = *in.Email
	}
	if in.FirstName != nil {
		lead.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		lead.LastName = *in.LastName
	}
	if in.ContactNumber != nil {
		lead.ContactNumber = *in.ContactNumber
	}
	if in.CompanyName != nil {
		lead.CompanyName = *in.CompanyName
	}
	if in.JobTitle != nil {
		lead.JobTitle = *in.JobTitle
	}
	if in.Source != nil {
		lead.Source = *in.Source
	}
	if in.Status != nil {
		lead.Status = *in.Status
	}
	if in.Notes != nil {
		lead.Notes = *in.Notes
	}
	if in.AssignedTo.Set {
		lead.AssignedTo = in.AssignedTo.Value
	}
	lead.UpdatedAt = time.Now()
	if err := uc.leadRepo.Update(lead); err != nil {
		return nil, err
	}
	detail, err := uc.leadRepo.GetDetailByID(lead.ID)
	if err != nil {
		return nil, err
	}
	return toLeadResponse(detail), nil
}

// Delete marca el lead como eliminado (borrado lógico). No hay cascada: los
// deals y proyectos que lo referencien conservan la referencia colgante.
func (uc *LeadUseCase) Delete(id string) error {
	return uc.leadRepo.SoftDelete(id)
}

// ConvertToDeal convierte un Lead en un Deal nuevo: siembra el deal con datos
// del lead, aplica los overrides del payload y lo persiste con lead_id apuntando
// al origen. No bloquea ni elimina el lead; convertir dos veces produce dos
// deals distintos referenciando el mismo lead.
func (uc *LeadUseCase) ConvertToDeal(leadID string, in dto.ConvertLeadRequest, userID string) (*dto.DealResponse, error) {
	lead, err := uc.leadRepo.GetByID(leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.ErrLeadNotFound
	}

	title := strings.TrimSpace(lead.FirstName + " " + lead.LastName)
	if lead.CompanyName != "" {
		title += " (" + lead.CompanyName + ")"
	}
	now := time.Now()
	deal := &entity.Deal{
		ID:          uuid.New().String(),
		Title:       title,
		Amount:      decimal.Zero,
		Currency:    "USD",
		LeadID:      &lead.ID,
		Status:      entity.DealStatusOpen,
		Probability: 0,
		AssignedTo:  lead.AssignedTo,
		CreatedBy:   refOrNil(userID),
		Notes:       lead.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Title != nil {
		deal.Title = *in.Title
	}
	if in.Description != nil {
		deal.Description = *in.Description
	}
	if in.Amount != nil {
		deal.Amount = *in.Amount
	}
	if in.Currency != nil {
		deal.Currency = *in.Currency
	}
	if in.Status != nil {
		deal.Status = *in.Status
	}
	if in.Probability != nil {
		if *in.Probability < 0 || *in.Probability > 100 {
			return nil, domain.ErrInvalidInput
		}
		deal.Probability = *in.Probability
	}
	if in.ExpectedCloseDate != nil {
		deal.ExpectedCloseDate = in.ExpectedCloseDate
	}
	if in.AssignedTo != nil {
		deal.AssignedTo = in.AssignedTo
	}
	if in.Notes != nil {
		deal.Notes = *in.Notes
	}
	if deal.Title == "" {
		return nil, domain.ErrInvalidInput
	}

	if err := uc.dealRepo.Create(deal); err != nil {
		return nil, err
	}

	if in.LeadStatus != nil && *in.LeadStatus != "" {
		lead.Status = *in.LeadStatus
		lead.UpdatedAt = time.Now()
		if err := uc.leadRepo.Update(lead); err != nil {
			return nil, err
		}
	}

	detail, err := uc.dealRepo.GetDetailByID(deal.ID)
	if err != nil {
		return nil, err
	}
	return toDealResponse(detail), nil
}

func toLeadResponse(d *entity.LeadDetail) *dto.LeadResponse {
	if d == nil {
		return nil
	}
	return &dto.LeadResponse{
		ID:            d.Lead.ID,
		FirstName:     d.Lead.FirstName,
		LastName:      d.Lead.LastName,
		Email:         d.Lead.Email,
		ContactNumber: d.Lead.ContactNumber,
		CompanyName:   d.Lead.CompanyName,
		JobTitle:      d.Lead.JobTitle,
		Source:        d.Lead.Source,
		Status:        d.Lead.Status,
		Notes:         d.Lead.Notes,
		AssignedTo:    d.AssignedTo,
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.Lead.CreatedAt,
		UpdatedAt:     d.Lead.UpdatedAt,
	}
}

// refOrNil convierte el ID del caller a referencia anulable (caller anónimo = nil).
func refOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
