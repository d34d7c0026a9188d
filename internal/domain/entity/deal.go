package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados conocidos de un Deal. Se almacenan como string libre; estos son los
// valores que el pipeline maneja: open, qualified, proposal, negotiation, won, lost.
const (
	DealStatusOpen = "open"
	DealStatusWon  = "won"
	DealStatusLost = "lost"
)

// Deal representa una oportunidad de venta con valor monetario y probabilidad de cierre.
// Probability está en [0,100]. LeadID, si está presente, debe referenciar un Lead
// no eliminado al momento de escritura (no se mantiene si el Lead se borra después).
type Deal struct {
	ID                string
	Title             string
	Description       string
	Amount            decimal.Decimal
	Currency          string // por defecto "USD"
	LeadID            *string
	Status            string // por defecto "open"
	Probability       int
	ExpectedCloseDate *time.Time
	ActualCloseDate   *time.Time
	AssignedTo        *string
	CreatedBy         *string
	Notes             string
	IsDeleted         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DealSummary proyección de un Deal referenciado (populate).
type DealSummary struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	Probability int             `json:"probability,omitempty"`
}

// DealDetail deal con sus referencias expandidas a proyecciones.
type DealDetail struct {
	Deal       Deal
	Lead       *LeadSummary
	AssignedTo *UserSummary
	CreatedBy  *UserSummary
}
