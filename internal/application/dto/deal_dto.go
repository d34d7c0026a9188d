package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

// CreateDealRequest payload para crear un deal. title es obligatorio.
type CreateDealRequest struct {
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Amount            decimal.Decimal  `json:"amount"`   // default 0
	Currency          string           `json:"currency"` // default "USD"
	LeadID            *string          `json:"lead_id"`
	Status            string           `json:"status"` // default "open"
	Probability       int              `json:"probability"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date"`
	AssignedTo        *string          `json:"assigned_to"`
	Notes             string           `json:"notes"`
}

// UpdateDealRequest payload de update parcial: solo los campos presentes cambian;
// null o "" explícito limpia las referencias y fechas anulables.
type UpdateDealRequest struct {
	Title             *string          `json:"title"`
	Description       *string          `json:"description"`
	Amount            *decimal.Decimal `json:"amount"`
	Currency          *string          `json:"currency"`
	LeadID            OptionalRef      `json:"lead_id"`
	Status            *string          `json:"status"`
	Probability       *int             `json:"probability"`
	ExpectedCloseDate OptionalTime     `json:"expected_close_date"`
	ActualCloseDate   OptionalTime     `json:"actual_close_date"`
	AssignedTo        OptionalRef      `json:"assigned_to"`
	Notes             *string          `json:"notes"`
}

// ConvertLeadRequest payload para convertir un Lead en Deal. Todos los campos
// son overrides opcionales sobre los valores sembrados desde el Lead.
type ConvertLeadRequest struct {
	Title             *string          `json:"title"`
	Description       *string          `json:"description"`
	Amount            *decimal.Decimal `json:"amount"`
	Currency          *string          `json:"currency"`
	Status            *string          `json:"status"`
	Probability       *int             `json:"probability"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date"`
	AssignedTo        *string          `json:"assigned_to"`
	Notes             *string          `json:"notes"`
	// LeadStatus, si viene, actualiza el status del Lead origen tras la conversión.
	LeadStatus *string `json:"lead_status"`
}

// DealSearchRequest objeto de búsqueda tipado para listar deals.
type DealSearchRequest struct {
	SearchPage
	Search            string           `json:"search"`
	Status            string           `json:"status"`
	LeadID            string           `json:"lead_id"`
	AssignedTo        string           `json:"assigned_to"`
	CreatedBy         string           `json:"created_by"`
	MinAmount         *decimal.Decimal `json:"min_amount"`
	MaxAmount         *decimal.Decimal `json:"max_amount"`
	ExpectedCloseFrom *time.Time       `json:"expected_close_from"`
	ExpectedCloseTo   *time.Time       `json:"expected_close_to"`
	CreatedFrom       *time.Time       `json:"created_from"`
	CreatedTo         *time.Time       `json:"created_to"`
}

// Filter traduce la búsqueda al predicado del repositorio. Las cotas min/max
// forman un único rango inclusivo por campo.
func (r DealSearchRequest) Filter() repository.DealFilter {
	return repository.DealFilter{
		Search:            r.Search,
		Status:            r.Status,
		LeadID:            r.LeadID,
		AssignedTo:        r.AssignedTo,
		CreatedBy:         r.CreatedBy,
		MinAmount:         r.MinAmount,
		MaxAmount:         r.MaxAmount,
		ExpectedCloseFrom: r.ExpectedCloseFrom,
		ExpectedCloseTo:   r.ExpectedCloseTo,
		CreatedFrom:       r.CreatedFrom,
		CreatedTo:         r.CreatedTo,
	}
}

// DealStatsRequest filtros opcionales para estadísticas de deals.
type DealStatsRequest struct {
	AssignedTo string     `json:"assigned_to"`
	LeadID     string     `json:"lead_id"`
	StartDate  *time.Time `json:"start_date"` // rango sobre created_at
	EndDate    *time.Time `json:"end_date"`
}

// Filter traduce al predicado del repositorio.
func (r DealStatsRequest) Filter() repository.DealStatsFilter {
	return repository.DealStatsFilter{
		AssignedTo:  r.AssignedTo,
		LeadID:      r.LeadID,
		CreatedFrom: r.StartDate,
		CreatedTo:   r.EndDate,
	}
}

// DealResponse deal con referencias expandidas (sin is_deleted).
type DealResponse struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Amount            decimal.Decimal     `json:"amount"`
	Currency          string              `json:"currency"`
	Lead              *entity.LeadSummary `json:"lead_id"`
	Status            string              `json:"status"`
	Probability       int                 `json:"probability"`
	ExpectedCloseDate *time.Time          `json:"expected_close_date"`
	ActualCloseDate   *time.Time          `json:"actual_close_date"`
	AssignedTo        *entity.UserSummary `json:"assigned_to"`
	CreatedBy         *entity.UserSummary `json:"created_by"`
	Notes             string              `json:"notes"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// DealListResponse página de deals con metadatos de paginación.
type DealListResponse struct {
	DealList   []DealResponse `json:"deal_list"`
	PageCount  int            `json:"page_count"`
	TotalCount int            `json:"total_count"`
}

// DealBucket agregado por grupo: cantidad y valor total.
type DealBucket struct {
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// DealStatisticsResponse agregados sobre el conjunto filtrado de deals.
// Los promedios vienen redondeados a 2 decimales.
type DealStatisticsResponse struct {
	TotalDeals         int                   `json:"total_deals"`
	TotalDealValue     decimal.Decimal       `json:"total_deal_value"`
	AverageDealValue   decimal.Decimal       `json:"average_deal_value"`
	WonDeals           DealBucket            `json:"won_deals"`
	LostDeals          DealBucket            `json:"lost_deals"`
	OpenDeals          DealBucket            `json:"open_deals"`
	AverageProbability float64               `json:"average_probability"`
	DealsByStatus      map[string]DealBucket `json:"deals_by_status"`
	DealsByUser        map[string]DealBucket `json:"deals_by_user"`
}
