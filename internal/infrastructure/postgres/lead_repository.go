package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

// LeadRepo implementación de LeadRepository (usable con pool o tx).
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

const leadColumns = `l.id, l.first_name, l.last_name, l.email, l.contact_number,
	l.company_name, l.job_title, l.source, l.status, l.notes, l.assigned_to,
	l.created_by, l.created_at, l.updated_at`

const leadDetailSelect = `
	SELECT ` + leadColumns + `,
		au.id, au.first_name, au.last_name, au.email,
		cu.id, cu.first_name, cu.last_name, cu.email
	FROM leads l
	LEFT JOIN users au ON au.id = l.assigned_to
	LEFT JOIN users cu ON cu.id = l.created_by
	WHERE l.is_deleted = FALSE`

var leadSortColumns = map[string]string{
	"created_at": "l.created_at",
	"updated_at": "l.updated_at",
	"first_name": "l.first_name",
	"last_name":  "l.last_name",
	"email":      "l.email",
	"status":     "l.status",
	"source":     "l.source",
}

// leadWhere compila el filtro tipado a condiciones SQL sobre el alias l.
func leadWhere(f repository.LeadFilter) *whereBuilder {
	b := &whereBuilder{}
	if f.Search != "" {
		b.containsAny([]string{"l.first_name", "l.last_name", "l.email", "l.contact_number", "l.company_name"}, f.Search)
	}
	if f.Status != "" {
		b.contains("l.status", f.Status)
	}
	if f.Source != "" {
		b.contains("l.source", f.Source)
	}
	if f.AssignedTo != "" {
		b.where("l.assigned_to = " + b.bind(f.AssignedTo))
	}
	if f.CreatedBy != "" {
		b.where("l.created_by = " + b.bind(f.CreatedBy))
	}
	if f.CreatedFrom != nil {
		b.where("l.created_at >= " + b.bind(*f.CreatedFrom))
	}
	if f.CreatedTo != nil {
		b.where("l.created_at <= " + b.bind(*f.CreatedTo))
	}
	return b
}

// Create persiste un nuevo lead. La unicidad de email entre leads no eliminados
// la respalda un índice único parcial; una violación se mapea a ErrEmailAlreadyExists.
func (r *LeadRepo) Create(lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, first_name, last_name, email, contact_number, company_name,
			job_title, source, status, notes, assigned_to, created_by, is_deleted,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, FALSE, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		lead.ID, lead.FirstName, lead.LastName, lead.Email, lead.ContactNumber,
		lead.CompanyName, lead.JobTitle, lead.Source, lead.Status, lead.Notes,
		lead.AssignedTo, lead.CreatedBy, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID obtiene un lead no eliminado por ID.
func (r *LeadRepo) GetByID(id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads l WHERE l.id = $1 AND l.is_deleted = FALSE`
	var l entity.Lead
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.ContactNumber, &l.CompanyName,
		&l.JobTitle, &l.Source, &l.Status, &l.Notes, &l.AssignedTo, &l.CreatedBy,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &l, nil
}

// GetDetailByID obtiene un lead no eliminado con referencias expandidas.
func (r *LeadRepo) GetDetailByID(id string) (*entity.LeadDetail, error) {
	query := leadDetailSelect + ` AND l.id = $1`
	detail, err := scanLeadDetail(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead detail: %w", err)
	}
	return detail, nil
}

// GetByEmail busca un lead no eliminado por email, excluyendo opcionalmente un ID.
func (r *LeadRepo) GetByEmail(email, excludeID string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads l
		WHERE l.email = $1 AND l.is_deleted = FALSE AND ($2 = '' OR l.id <> $2)`
	var l entity.Lead
	err := r.q.QueryRow(context.Background(), query, email, excludeID).Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.ContactNumber, &l.CompanyName,
		&l.JobTitle, &l.Source, &l.Status, &l.Notes, &l.AssignedTo, &l.CreatedBy,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead by email: %w", err)
	}
	return &l, nil
}

// ListDetails lista la página de leads no eliminados que cumplen el filtro.
func (r *LeadRepo) ListDetails(f repository.LeadFilter, p repository.Page) ([]*entity.LeadDetail, error) {
	b := leadWhere(f)
	query := leadDetailSelect + b.clause() +
		orderLimit(leadSortColumns, p.SortBy, p.Desc, p.Limit, p.Offset, "l.created_at")
	rows, err := r.q.Query(context.Background(), query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	var list []*entity.LeadDetail
	for rows.Next() {
		detail, err := scanLeadDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, detail)
	}
	return list, rows.Err()
}

// Count cuenta los leads no eliminados que cumplen el filtro, sin paginación.
func (r *LeadRepo) Count(f repository.LeadFilter) (int, error) {
	b := leadWhere(f)
	query := `SELECT COUNT(*) FROM leads l WHERE l.is_deleted = FALSE` + b.clause()
	var total int
	if err := r.q.QueryRow(context.Background(), query, b.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return total, nil
}

// Update persiste el documento completo del lead (sin tocar is_deleted).
func (r *LeadRepo) Update(lead *entity.Lead) error {
	query := `
		UPDATE leads SET first_name = $2, last_name = $3, email = $4, contact_number = $5,
			company_name = $6, job_title = $7, source = $8, status = $9, notes = $10,
			assigned_to = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		lead.ID, lead.FirstName, lead.LastName, lead.Email, lead.ContactNumber,
		lead.CompanyName, lead.JobTitle, lead.Source, lead.Status, lead.Notes,
		lead.AssignedTo, lead.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update lead: %w", err)
	}
	return nil
}

// SoftDelete marca is_deleted de forma atómica sobre un registro aún no eliminado.
func (r *LeadRepo) SoftDelete(id string) error {
	query := `UPDATE leads SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func scanLeadDetail(row rowScanner) (*entity.LeadDetail, error) {
	var (
		l                          entity.Lead
		aID, aFirst, aLast, aMail  *string
		cID, cFirst, cLast, cMail  *string
	)
	err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.ContactNumber, &l.CompanyName,
		&l.JobTitle, &l.Source, &l.Status, &l.Notes, &l.AssignedTo, &l.CreatedBy,
		&l.CreatedAt, &l.UpdatedAt,
		&aID, &aFirst, &aLast, &aMail,
		&cID, &cFirst, &cLast, &cMail,
	)
	if err != nil {
		return nil, err
	}
	detail := &entity.LeadDetail{Lead: l}
	if aID != nil {
		detail.AssignedTo = &entity.UserSummary{ID: *aID, FirstName: strVal(aFirst), LastName: strVal(aLast), Email: strVal(aMail)}
	}
	if cID != nil {
		detail.CreatedBy = &entity.UserSummary{ID: *cID, FirstName: strVal(cFirst), LastName: strVal(cLast), Email: strVal(cMail)}
	}
	return detail, nil
}
