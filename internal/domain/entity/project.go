package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados terminales de un proyecto: no cuentan como vencidos (overdue).
const (
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// Project representa una unidad de trabajo de entrega, opcionalmente ligada al
// Deal/Lead que la originó. Progress está en [0,100].
type Project struct {
	ID            string
	Name          string
	Description   string
	Status        string // por defecto "planning"
	Priority      string // por defecto "medium"
	StartDate     *time.Time
	EndDate       *time.Time
	ActualEndDate *time.Time
	Budget        decimal.Decimal
	SpentAmount   decimal.Decimal
	Currency      string
	Progress      int
	DealID        *string
	LeadID        *string
	AssignedTo    *string
	TeamMembers   []string // referencias a User
	CreatedBy     *string
	Tags          []string
	Notes         string
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProjectDetail proyecto con sus referencias expandidas a proyecciones.
type ProjectDetail struct {
	Project     Project
	Deal        *DealSummary
	Lead        *LeadSummary
	AssignedTo  *UserSummary
	TeamMembers []UserSummary
	CreatedBy   *UserSummary
}
