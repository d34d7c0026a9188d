package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Page parámetros de paginación/orden ya resueltos (el helper de paginación
// vive en dto.SearchPage; aquí llega todo calculado).
type Page struct {
	SortBy string // nombre de columna; el adaptador lo valida contra su whitelist
	Desc   bool
	Offset int
	Limit  int
}

// Los filtros son la versión tipada del searchObj dinámico: cada campo es
// opcional (cero/nil = sin restricción) y todos se combinan con AND, salvo
// Search que es un OR interno sobre los campos de texto de cada entidad.

// LeadFilter filtros reconocidos para listar leads no eliminados.
type LeadFilter struct {
	Search      string // substring case-insensitive sobre first/last name, email, contact_number, company_name
	Status      string // substring case-insensitive
	Source      string // substring case-insensitive
	AssignedTo  string // igualdad
	CreatedBy   string // igualdad
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// DealFilter filtros reconocidos para listar deals no eliminados.
// Min/Max forman un único rango inclusivo por campo; cada cota es independiente.
type DealFilter struct {
	Search            string // title, description
	Status            string
	LeadID            string
	AssignedTo        string
	CreatedBy         string
	MinAmount         *decimal.Decimal
	MaxAmount         *decimal.Decimal
	ExpectedCloseFrom *time.Time
	ExpectedCloseTo   *time.Time
	CreatedFrom       *time.Time
	CreatedTo         *time.Time
}

// DealStatsFilter subconjunto de filtros para estadísticas de deals.
type DealStatsFilter struct {
	AssignedTo  string
	LeadID      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ProjectFilter filtros reconocidos para listar proyectos no eliminados.
type ProjectFilter struct {
	Search      string // name, description
	Status      string
	Priority    string
	DealID      string
	LeadID      string
	AssignedTo  string
	TeamMember  string // pertenencia en team_members
	CreatedBy   string
	Tag         string // substring case-insensitive contra algún tag
	MinBudget   *decimal.Decimal
	MaxBudget   *decimal.Decimal
	MinSpent    *decimal.Decimal
	MaxSpent    *decimal.Decimal
	MinProgress *int
	MaxProgress *int
	StartFrom   *time.Time
	StartTo     *time.Time
	EndFrom     *time.Time
	EndTo       *time.Time
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Overdue     bool // end_date < ahora y status fuera de {completed, cancelled}
}
