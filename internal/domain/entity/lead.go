package entity

import "time"

// Lead representa un contacto prospecto aún no convertido en oportunidad de venta.
// Email es único entre los leads no eliminados. El borrado es lógico (IsDeleted).
type Lead struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	ContactNumber string
	CompanyName   string
	JobTitle      string
	Source        string
	Status        string // libre; por defecto "new"
	Notes         string
	AssignedTo    *string // referencia a User
	CreatedBy     *string
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LeadSummary proyección de un Lead referenciado (populate).
type LeadSummary struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	CompanyName   string `json:"company_name"`
	ContactNumber string `json:"contact_number,omitempty"`
}

// LeadDetail lead con sus referencias expandidas a proyecciones.
type LeadDetail struct {
	Lead       Lead
	AssignedTo *UserSummary
	CreatedBy  *UserSummary
}
