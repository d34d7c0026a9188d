package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

// CreateProjectRequest payload para crear un proyecto. name es obligatorio.
type CreateProjectRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      string          `json:"status"`   // default "planning"
	Priority    string          `json:"priority"` // default "medium"
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	Budget      decimal.Decimal `json:"budget"`
	SpentAmount decimal.Decimal `json:"spent_amount"`
	Currency    string          `json:"currency"` // default "USD"
	Progress    int             `json:"progress"`
	DealID      *string         `json:"deal_id"`
	LeadID      *string         `json:"lead_id"`
	AssignedTo  *string         `json:"assigned_to"`
	TeamMembers []string        `json:"team_members"`
	Tags        []string        `json:"tags"`
	Notes       string          `json:"notes"`
}

// UpdateProjectRequest payload de update parcial.
type UpdateProjectRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Status        *string          `json:"status"`
	Priority      *string          `json:"priority"`
	StartDate     OptionalTime     `json:"start_date"`
	EndDate       OptionalTime     `json:"end_date"`
	ActualEndDate OptionalTime     `json:"actual_end_date"`
	Budget        *decimal.Decimal `json:"budget"`
	SpentAmount   *decimal.Decimal `json:"spent_amount"`
	Currency      *string          `json:"currency"`
	Progress      *int             `json:"progress"`
	DealID        OptionalRef      `json:"deal_id"`
	LeadID        OptionalRef      `json:"lead_id"`
	AssignedTo    OptionalRef      `json:"assigned_to"`
	TeamMembers   *[]string        `json:"team_members"`
	Tags          *[]string        `json:"tags"`
	Notes         *string          `json:"notes"`
}

// ProjectSearchRequest objeto de búsqueda tipado para listar proyectos.
type ProjectSearchRequest struct {
	SearchPage
	Search        string           `json:"search"`
	Status        string           `json:"status"`
	Priority      string           `json:"priority"`
	DealID        string           `json:"deal_id"`
	LeadID        string           `json:"lead_id"`
	AssignedTo    string           `json:"assigned_to"`
	TeamMember    string           `json:"team_member"`
	CreatedBy     string           `json:"created_by"`
	Tag           string           `json:"tag"`
	MinBudget     *decimal.Decimal `json:"min_budget"`
	MaxBudget     *decimal.Decimal `json:"max_budget"`
	MinSpent      *decimal.Decimal `json:"min_spent"`
	MaxSpent      *decimal.Decimal `json:"max_spent"`
	MinProgress   *int             `json:"min_progress"`
	MaxProgress   *int             `json:"max_progress"`
	StartDateFrom *time.Time       `json:"start_date_from"`
	StartDateTo   *time.Time       `json:"start_date_to"`
	EndDateFrom   *time.Time       `json:"end_date_from"`
	EndDateTo     *time.Time       `json:"end_date_to"`
	CreatedFrom   *time.Time       `json:"created_from"`
	CreatedTo     *time.Time       `json:"created_to"`
	Overdue       TruthyFlag       `json:"overdue"`
}

// Filter traduce la búsqueda al predicado del repositorio.
func (r ProjectSearchRequest) Filter() repository.ProjectFilter {
	return repository.ProjectFilter{
		Search:      r.Search,
		Status:      r.Status,
		Priority:    r.Priority,
		DealID:      r.DealID,
		LeadID:      r.LeadID,
		AssignedTo:  r.AssignedTo,
		TeamMember:  r.TeamMember,
		CreatedBy:   r.CreatedBy,
		Tag:         r.Tag,
		MinBudget:   r.MinBudget,
		MaxBudget:   r.MaxBudget,
		MinSpent:    r.MinSpent,
		MaxSpent:    r.MaxSpent,
		MinProgress: r.MinProgress,
		MaxProgress: r.MaxProgress,
		StartFrom:   r.StartDateFrom,
		StartTo:     r.StartDateTo,
		EndFrom:     r.EndDateFrom,
		EndTo:       r.EndDateTo,
		CreatedFrom: r.CreatedFrom,
		CreatedTo:   r.CreatedTo,
		Overdue:     r.Overdue.True(),
	}
}

// ProjectResponse proyecto con referencias expandidas (sin is_deleted).
type ProjectResponse struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Status        string               `json:"status"`
	Priority      string               `json:"priority"`
	StartDate     *time.Time           `json:"start_date"`
	EndDate       *time.Time           `json:"end_date"`
	ActualEndDate *time.Time           `json:"actual_end_date"`
	Budget        decimal.Decimal      `json:"budget"`
	SpentAmount   decimal.Decimal      `json:"spent_amount"`
	Currency      string               `json:"currency"`
	Progress      int                  `json:"progress"`
	Deal          *entity.DealSummary  `json:"deal_id"`
	Lead          *entity.LeadSummary  `json:"lead_id"`
	AssignedTo    *entity.UserSummary  `json:"assigned_to"`
	TeamMembers   []entity.UserSummary `json:"team_members"`
	CreatedBy     *entity.UserSummary  `json:"created_by"`
	Tags          []string             `json:"tags"`
	Notes         string               `json:"notes"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ProjectListResponse página de proyectos con metadatos de paginación.
type ProjectListResponse struct {
	ProjectList []ProjectResponse `json:"project_list"`
	PageCount   int               `json:"page_count"`
	TotalCount  int               `json:"total_count"`
}
