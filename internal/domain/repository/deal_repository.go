package repository

import "github.com/jhoicas/CRM-api/internal/domain/entity"

// DealRepository define el puerto de persistencia para Deal.
// Todas las lecturas excluyen registros con is_deleted = true.
type DealRepository interface {
	Create(deal *entity.Deal) error
	GetByID(id string) (*entity.Deal, error)
	// GetDetailByID obtiene el deal con lead, assigned_to y created_by expandidos.
	GetDetailByID(id string) (*entity.DealDetail, error)
	ListDetails(f DealFilter, p Page) ([]*entity.DealDetail, error)
	Count(f DealFilter) (int, error)
	// ListAll carga todos los deals no eliminados que cumplen el filtro, sin
	// paginación. Lo usa el agregador de estadísticas.
	ListAll(f DealStatsFilter) ([]*entity.Deal, error)
	Update(deal *entity.Deal) error
	SoftDelete(id string) error
}
