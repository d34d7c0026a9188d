package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación de ProjectRepository (usable con pool o tx).
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

const projectColumns = `p.id, p.name, p.description, p.status, p.priority,
	p.start_date, p.end_date, p.actual_end_date, p.budget, p.spent_amount,
	p.currency, p.progress, p.deal_id, p.lead_id, p.assigned_to, p.team_members,
	p.created_by, p.tags, p.notes, p.created_at, p.updated_at`

const projectDetailSelect = `
	SELECT ` + projectColumns + `,
		dl.id, dl.title, dl.amount, dl.status, dl.probability,
		l.id, l.first_name, l.last_name, l.email, l.company_name, l.contact_number,
		au.id, au.first_name, au.last_name, au.email,
		cu.id, cu.first_name, cu.last_name, cu.email
	FROM projects p
	LEFT JOIN deals dl ON dl.id = p.deal_id AND dl.is_deleted = FALSE
	LEFT JOIN leads l ON l.id = p.lead_id AND l.is_deleted = FALSE
	LEFT JOIN users au ON au.id = p.assigned_to
	LEFT JOIN users cu ON cu.id = p.created_by
	WHERE p.is_deleted = FALSE`

var projectSortColumns = map[string]string{
	"created_at": "p.created_at",
	"updated_at": "p.updated_at",
	"name":       "p.name",
	"status":     "p.status",
	"priority":   "p.priority",
	"budget":     "p.budget",
	"progress":   "p.progress",
	"start_date": "p.start_date",
	"end_date":   "p.end_date",
}

// projectWhere compila el filtro tipado a condiciones SQL sobre el alias p.
func projectWhere(f repository.ProjectFilter) *whereBuilder {
	b := &whereBuilder{}
	if f.Search != "" {
		b.containsAny([]string{"p.name", "p.description"}, f.Search)
	}
	if f.Status != "" {
		b.contains("p.status", f.Status)
	}
	if f.Priority != "" {
		b.contains("p.priority", f.Priority)
	}
	if f.DealID != "" {
		b.where("p.deal_id = " + b.bind(f.DealID))
	}
	if f.LeadID != "" {
		b.where("p.lead_id = " + b.bind(f.LeadID))
	}
	if f.AssignedTo != "" {
		b.where("p.assigned_to = " + b.bind(f.AssignedTo))
	}
	if f.TeamMember != "" {
		b.where(b.bind(f.TeamMember) + " = ANY(p.team_members)")
	}
	if f.CreatedBy != "" {
		b.where("p.created_by = " + b.bind(f.CreatedBy))
	}
	if f.Tag != "" {
		b.where("EXISTS (SELECT 1 FROM unnest(p.tags) AS t WHERE t ILIKE '%' || " + b.bind(f.Tag) + " || '%')")
	}
	if f.MinBudget != nil {
		b.where("p.budget >= " + b.bind(*f.MinBudget))
	}
	if f.MaxBudget != nil {
		b.where("p.budget <= " + b.bind(*f.MaxBudget))
	}
	if f.MinSpent != nil {
		b.where("p.spent_amount >= " + b.bind(*f.MinSpent))
	}
	if f.MaxSpent != nil {
		b.where("p.spent_amount <= " + b.bind(*f.MaxSpent))
	}
	if f.MinProgress != nil {
		b.where("p.progress >= " + b.bind(*f.MinProgress))
	}
	if f.MaxProgress != nil {
		b.where("p.progress <= " + b.bind(*f.MaxProgress))
	}
	if f.StartFrom != nil {
		b.where("p.start_date >= " + b.bind(*f.StartFrom))
	}
	if f.StartTo != nil {
		b.where("p.start_date <= " + b.bind(*f.StartTo))
	}
	if f.EndFrom != nil {
		b.where("p.end_date >= " + b.bind(*f.EndFrom))
	}
	if f.EndTo != nil {
		b.where("p.end_date <= " + b.bind(*f.EndTo))
	}
	if f.CreatedFrom != nil {
		b.where("p.created_at >= " + b.bind(*f.CreatedFrom))
	}
	if f.CreatedTo != nil {
		b.where("p.created_at <= " + b.bind(*f.CreatedTo))
	}
	if f.Overdue {
		// Vencido: pasada la fecha fin y status fuera del conjunto terminal.
		b.where("p.end_date < now()")
		b.where("p.status NOT IN ('" + entity.ProjectStatusCompleted + "', '" + entity.ProjectStatusCancelled + "')")
	}
	return b
}

// Create persiste un nuevo proyecto.
func (r *ProjectRepo) Create(project *entity.Project) error {
	query := `
		INSERT INTO projects (id, name, description, status, priority, start_date,
			end_date, actual_end_date, budget, spent_amount, currency, progress,
			deal_id, lead_id, assigned_to, team_members, created_by, tags, notes,
			is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, FALSE, $20, $21)`
	_, err := r.q.Exec(context.Background(), query,
		project.ID, project.Name, project.Description, project.Status, project.Priority,
		project.StartDate, project.EndDate, project.ActualEndDate, project.Budget,
		project.SpentAmount, project.Currency, project.Progress, project.DealID,
		project.LeadID, project.AssignedTo, project.TeamMembers, project.CreatedBy,
		project.Tags, project.Notes, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto no eliminado por ID.
func (r *ProjectRepo) GetByID(id string) (*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = $1 AND p.is_deleted = FALSE`
	var p entity.Project
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.Priority, &p.StartDate, &p.EndDate,
		&p.ActualEndDate, &p.Budget, &p.SpentAmount, &p.Currency, &p.Progress, &p.DealID,
		&p.LeadID, &p.AssignedTo, &p.TeamMembers, &p.CreatedBy, &p.Tags, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// GetDetailByID obtiene un proyecto no eliminado con referencias expandidas
// (team_members se expande aparte, vía UserRepository).
func (r *ProjectRepo) GetDetailByID(id string) (*entity.ProjectDetail, error) {
	query := projectDetailSelect + ` AND p.id = $1`
	detail, err := scanProjectDetail(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project detail: %w", err)
	}
	return detail, nil
}

// ListDetails lista la página de proyectos no eliminados que cumplen el filtro.
func (r *ProjectRepo) ListDetails(f repository.ProjectFilter, p repository.Page) ([]*entity.ProjectDetail, error) {
	b := projectWhere(f)
	query := projectDetailSelect + b.clause() +
		orderLimit(projectSortColumns, p.SortBy, p.Desc, p.Limit, p.Offset, "p.created_at")
	rows, err := r.q.Query(context.Background(), query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProjectDetail
	for rows.Next() {
		detail, err := scanProjectDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, detail)
	}
	return list, rows.Err()
}

// Count cuenta los proyectos no eliminados que cumplen el filtro, sin paginación.
func (r *ProjectRepo) Count(f repository.ProjectFilter) (int, error) {
	b := projectWhere(f)
	query := `SELECT COUNT(*) FROM projects p WHERE p.is_deleted = FALSE` + b.clause()
	var total int
	if err := r.q.QueryRow(context.Background(), query, b.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return total, nil
}

// Update persiste el documento completo del proyecto (sin tocar is_deleted).
func (r *ProjectRepo) Update(project *entity.Project) error {
	query := `
		UPDATE projects SET name = $2, description = $3, status = $4, priority = $5,
			start_date = $6, end_date = $7, actual_end_date = $8, budget = $9,
			spent_amount = $10, currency = $11, progress = $12, deal_id = $13,
			lead_id = $14, assigned_to = $15, team_members = $16, tags = $17,
			notes = $18, updated_at = $19
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		project.ID, project.Name, project.Description, project.Status, project.Priority,
		project.StartDate, project.EndDate, project.ActualEndDate, project.Budget,
		project.SpentAmount, project.Currency, project.Progress, project.DealID,
		project.LeadID, project.AssignedTo, project.TeamMembers, project.Tags,
		project.Notes, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// SoftDelete marca is_deleted de forma atómica sobre un registro aún no eliminado.
func (r *ProjectRepo) SoftDelete(id string) error {
	query := `UPDATE projects SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func scanProjectDetail(row rowScanner) (*entity.ProjectDetail, error) {
	var (
		p                                      entity.Project
		dID, dTitle, dStatus                   *string
		dAmount                                *decimal.Decimal
		dProb                                  *int
		lID, lFirst, lLast, lMail, lComp, lTel *string
		aID, aFirst, aLast, aMail              *string
		cID, cFirst, cLast, cMail              *string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.Priority, &p.StartDate, &p.EndDate,
		&p.ActualEndDate, &p.Budget, &p.SpentAmount, &p.Currency, &p.Progress, &p.DealID,
		&p.LeadID, &p.AssignedTo, &p.TeamMembers, &p.CreatedBy, &p.Tags, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
		&dID, &dTitle, &dAmount, &dStatus, &dProb,
		&lID, &lFirst, &lLast, &lMail, &lComp, &lTel,
		&aID, &aFirst, &aLast, &aMail,
		&cID, &cFirst, &cLast, &cMail,
	)
	if err != nil {
		return nil, err
	}
	detail := &entity.ProjectDetail{Project: p}
	if dID != nil {
		summary := &entity.DealSummary{ID: *dID, Title: strVal(dTitle), Status: strVal(dStatus)}
		if dAmount != nil {
			summary.Amount = *dAmount
		}
		if dProb != nil {
			summary.Probability = *dProb
		}
		detail.Deal = summary
	}
	if lID != nil {
		detail.Lead = &entity.LeadSummary{
			ID:            *lID,
			FirstName:     strVal(lFirst),
			LastName:      strVal(lLast),
			Email:         strVal(lMail),
			CompanyName:   strVal(lComp),
			ContactNumber: strVal(lTel),
		}
	}
	if aID != nil {
		detail.AssignedTo = &entity.UserSummary{ID: *aID, FirstName: strVal(aFirst), LastName: strVal(aLast), Email: strVal(aMail)}
	}
	if cID != nil {
		detail.CreatedBy = &entity.UserSummary{ID: *cID, FirstName: strVal(cFirst), LastName: strVal(cLast), Email: strVal(cMail)}
	}
	return detail, nil
}
