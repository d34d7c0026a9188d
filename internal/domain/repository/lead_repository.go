package repository

import "github.com/jhoicas/CRM-api/internal/domain/entity"

// LeadRepository define el puerto de persistencia para Lead.
// Todas las lecturas excluyen registros con is_deleted = true.
type LeadRepository interface {
	Create(lead *entity.Lead) error
	GetByID(id string) (*entity.Lead, error)
	// GetDetailByID obtiene el lead con assigned_to y created_by expandidos.
	GetDetailByID(id string) (*entity.LeadDetail, error)
	// GetByEmail busca un lead no eliminado por email, excluyendo opcionalmente
	// un ID (para re-chequear unicidad en updates). excludeID vacío = sin exclusión.
	GetByEmail(email, excludeID string) (*entity.Lead, error)
	ListDetails(f LeadFilter, p Page) ([]*entity.LeadDetail, error)
	Count(f LeadFilter) (int, error)
	Update(lead *entity.Lead) error
	// SoftDelete marca is_deleted de forma atómica; devuelve ErrLeadNotFound si
	// no existe un registro no eliminado con ese ID.
	SoftDelete(id string) error
}
