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

var _ repository.DealRepository = (*DealRepo)(nil)

// DealRepo implementación de DealRepository (usable con pool o tx).
type DealRepo struct {
	q Querier
}

// NewDealRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDealRepository(q Querier) *DealRepo {
	return &DealRepo{q: q}
}

const dealColumns = `d.id, d.title, d.description, d.amount, d.currency, d.lead_id,
	d.status, d.probability, d.expected_close_date, d.actual_close_date,
	d.assigned_to, d.created_by, d.notes, d.created_at, d.updated_at`

const dealDetailSelect = `
	SELECT ` + dealColumns + `,
		l.id, l.first_name, l.last_name, l.email, l.company_name, l.contact_number,
		au.id, au.first_name, au.last_name, au.email,
		cu.id, cu.first_name, cu.last_name, cu.email
	FROM deals d
	LEFT JOIN leads l ON l.id = d.lead_id AND l.is_deleted = FALSE
	LEFT JOIN users au ON au.id = d.assigned_to
	LEFT JOIN users cu ON cu.id = d.created_by
	WHERE d.is_deleted = FALSE`

var dealSortColumns = map[string]string{
	"created_at":          "d.created_at",
	"updated_at":          "d.updated_at",
	"title":               "d.title",
	"amount":              "d.amount",
	"status":              "d.status",
	"probability":         "d.probability",
	"expected_close_date": "d.expected_close_date",
}

// dealWhere compila el filtro tipado a condiciones SQL sobre el alias d.
func dealWhere(f repository.DealFilter) *whereBuilder {
	b := &whereBuilder{}
	if f.Search != "" {
		b.containsAny([]string{"d.title", "d.description"}, f.Search)
	}
	if f.Status != "" {
		b.contains("d.status", f.Status)
	}
	if f.LeadID != "" {
		b.where("d.lead_id = " + b.bind(f.LeadID))
	}
	if f.AssignedTo != "" {
		b.where("d.assigned_to = " + b.bind(f.AssignedTo))
	}
	if f.CreatedBy != "" {
		b.where("d.created_by = " + b.bind(f.CreatedBy))
	}
	if f.MinAmount != nil {
		b.where("d.amount >= " + b.bind(*f.MinAmount))
	}
	if f.MaxAmount != nil {
		b.where("d.amount <= " + b.bind(*f.MaxAmount))
	}
	if f.ExpectedCloseFrom != nil {
		b.where("d.expected_close_date >= " + b.bind(*f.ExpectedCloseFrom))
	}
	if f.ExpectedCloseTo != nil {
		b.where("d.expected_close_date <= " + b.bind(*f.ExpectedCloseTo))
	}
	if f.CreatedFrom != nil {
		b.where("d.created_at >= " + b.bind(*f.CreatedFrom))
	}
	if f.CreatedTo != nil {
		b.where("d.created_at <= " + b.bind(*f.CreatedTo))
	}
	return b
}

// dealStatsWhere compila el subconjunto de filtros de estadísticas.
func dealStatsWhere(f repository.DealStatsFilter) *whereBuilder {
	b := &whereBuilder{}
	if f.AssignedTo != "" {
		b.where("d.assigned_to = " + b.bind(f.AssignedTo))
	}
	if f.LeadID != "" {
		b.where("d.lead_id = " + b.bind(f.LeadID))
	}
	if f.CreatedFrom != nil {
		b.where("d.created_at >= " + b.bind(*f.CreatedFrom))
	}
	if f.CreatedTo != nil {
		b.where("d.created_at <= " + b.bind(*f.CreatedTo))
	}
	return b
}

// Create persiste un nuevo deal.
func (r *DealRepo) Create(deal *entity.Deal) error {
	query := `
		INSERT INTO deals (id, title, description, amount, currency, lead_id, status,
			probability, expected_close_date, actual_close_date, assigned_to, created_by,
			notes, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, FALSE, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		deal.ID, deal.Title, deal.Description, deal.Amount, deal.Currency, deal.LeadID,
		deal.Status, deal.Probability, deal.ExpectedCloseDate, deal.ActualCloseDate,
		deal.AssignedTo, deal.CreatedBy, deal.Notes, deal.CreatedAt, deal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

// GetByID obtiene un deal no eliminado por ID.
func (r *DealRepo) GetByID(id string) (*entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals d WHERE d.id = $1 AND d.is_deleted = FALSE`
	var d entity.Deal
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.Title, &d.Description, &d.Amount, &d.Currency, &d.LeadID, &d.Status,
		&d.Probability, &d.ExpectedCloseDate, &d.ActualCloseDate, &d.AssignedTo,
		&d.CreatedBy, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return &d, nil
}

// GetDetailByID obtiene un deal no eliminado con referencias expandidas.
func (r *DealRepo) GetDetailByID(id string) (*entity.DealDetail, error) {
	query := dealDetailSelect + ` AND d.id = $1`
	detail, err := scanDealDetail(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deal detail: %w", err)
	}
	return detail, nil
}

// ListDetails lista la página de deals no eliminados que cumplen el filtro.
func (r *DealRepo) ListDetails(f repository.DealFilter, p repository.Page) ([]*entity.DealDetail, error) {
	b := dealWhere(f)
	query := dealDetailSelect + b.clause() +
		orderLimit(dealSortColumns, p.SortBy, p.Desc, p.Limit, p.Offset, "d.created_at")
	rows, err := r.q.Query(context.Background(), query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()
	var list []*entity.DealDetail
	for rows.Next() {
		detail, err := scanDealDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		list = append(list, detail)
	}
	return list, rows.Err()
}

// Count cuenta los deals no eliminados que cumplen el filtro, sin paginación.
func (r *DealRepo) Count(f repository.DealFilter) (int, error) {
	b := dealWhere(f)
	query := `SELECT COUNT(*) FROM deals d WHERE d.is_deleted = FALSE` + b.clause()
	var total int
	if err := r.q.QueryRow(context.Background(), query, b.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count deals: %w", err)
	}
	return total, nil
}

// ListAll carga todos los deals no eliminados que cumplen el filtro de
// estadísticas, sin joins ni paginación.
func (r *DealRepo) ListAll(f repository.DealStatsFilter) ([]*entity.Deal, error) {
	b := dealStatsWhere(f)
	query := `SELECT ` + dealColumns + ` FROM deals d WHERE d.is_deleted = FALSE` + b.clause()
	rows, err := r.q.Query(context.Background(), query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list all deals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Deal
	for rows.Next() {
		var d entity.Deal
		err := rows.Scan(
			&d.ID, &d.Title, &d.Description, &d.Amount, &d.Currency, &d.LeadID, &d.Status,
			&d.Probability, &d.ExpectedCloseDate, &d.ActualCloseDate, &d.AssignedTo,
			&d.CreatedBy, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Update persiste el documento completo del deal (sin tocar is_deleted).
func (r *DealRepo) Update(deal *entity.Deal) error {
	query := `
		UPDATE deals SET title = $2, description = $3, amount = $4, currency = $5,
			lead_id = $6, status = $7, probability = $8, expected_close_date = $9,
			actual_close_date = $10, assigned_to = $11, notes = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		deal.ID, deal.Title, deal.Description, deal.Amount, deal.Currency, deal.LeadID,
		deal.Status, deal.Probability, deal.ExpectedCloseDate, deal.ActualCloseDate,
		deal.AssignedTo, deal.Notes, deal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	return nil
}

// SoftDelete marca is_deleted de forma atómica sobre un registro aún no eliminado.
func (r *DealRepo) SoftDelete(id string) error {
	query := `UPDATE deals SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDealNotFound
	}
	return nil
}

func scanDealDetail(row rowScanner) (*entity.DealDetail, error) {
	var (
		d                                      entity.Deal
		lID, lFirst, lLast, lMail, lComp, lTel *string
		aID, aFirst, aLast, aMail              *string
		cID, cFirst, cLast, cMail              *string
	)
	err := row.Scan(
		&d.ID, &d.Title, &d.Description, &d.Amount, &d.Currency, &d.LeadID, &d.Status,
		&d.Probability, &d.ExpectedCloseDate, &d.ActualCloseDate, &d.AssignedTo,
		&d.CreatedBy, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
		&lID, &lFirst, &lLast, &lMail, &lComp, &lTel,
		&aID, &aFirst, &aLast, &aMail,
		&cID, &cFirst, &cLast, &cMail,
	)
	if err != nil {
		return nil, err
	}
	detail := &entity.DealDetail{Deal: d}
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
