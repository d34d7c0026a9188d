package dto

import (
	"time"

	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

// CreateLeadRequest payload para crear un lead. first_name, last_name, email y
// contact_number son obligatorios; el resto toma defaults documentados.
type CreateLeadRequest struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	ContactNumber string  `json:"contact_number"`
	CompanyName   string  `json:"company_name"`
	JobTitle      string  `json:"job_title"`
	Source        string  `json:"source"`
	Status        string  `json:"status"` // default "new"
	Notes         string  `json:"notes"`
	AssignedTo    *string `json:"assigned_to"`
}

// UpdateLeadRequest payload de update parcial: solo los campos presentes cambian.
type UpdateLeadRequest struct {
	FirstName     *string     `json:"first_name"`
	LastName      *string     `json:"last_name"`
	Email         *string     `json:"email"`
	ContactNumber *string     `json:"contact_number"`
	CompanyName   *string     `json:"company_name"`
	JobTitle      *string     `json:"job_title"`
	Source        *string     `json:"source"`
	Status        *string     `json:"status"`
	Notes         *string     `json:"notes"`
	AssignedTo    OptionalRef `json:"assigned_to"`
}

// LeadSearchRequest objeto de búsqueda tipado para listar leads. La enumeración
// de claves reconocidas es esta; claves desconocidas en el JSON se ignoran.
type LeadSearchRequest struct {
	SearchPage
	Search      string     `json:"search"`
	Status      string     `json:"status"`
	Source      string     `json:"source"`
	AssignedTo  string     `json:"assigned_to"`
	CreatedBy   string     `json:"created_by"`
	CreatedFrom *time.Time `json:"created_from"`
	CreatedTo   *time.Time `json:"created_to"`
}

// Filter traduce la búsqueda al predicado del repositorio.
func (r LeadSearchRequest) Filter() repository.LeadFilter {
	return repository.LeadFilter{
		Search:      r.Search,
		Status:      r.Status,
		Source:      r.Source,
		AssignedTo:  r.AssignedTo,
		CreatedBy:   r.CreatedBy,
		CreatedFrom: r.CreatedFrom,
		CreatedTo:   r.CreatedTo,
	}
}

// LeadResponse lead con referencias expandidas (sin is_deleted).
type LeadResponse struct {
	ID            string               `json:"id"`
	FirstName     string               `json:"first_name"`
	LastName      string               `json:"last_name"`
	Email         string               `json:"email"`
	ContactNumber string               `json:"contact_number"`
	CompanyName   string               `json:"company_name"`
	JobTitle      string               `json:"job_title"`
	Source        string               `json:"source"`
	Status        string               `json:"status"`
	Notes         string               `json:"notes"`
	AssignedTo    *entity.UserSummary  `json:"assigned_to"`
	CreatedBy     *entity.UserSummary  `json:"created_by"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// LeadListResponse página de leads con metadatos de paginación.
type LeadListResponse struct {
	LeadList   []LeadResponse `json:"lead_list"`
	PageCount  int            `json:"page_count"`
	TotalCount int            `json:"total_count"`
}
