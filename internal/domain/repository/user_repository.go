package repository

import "github.com/jhoicas/CRM-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (auth y proyecciones).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// SummariesByIDs devuelve las proyecciones de los usuarios indicados, en un
	// solo viaje. IDs inexistentes simplemente no aparecen en el resultado.
	SummariesByIDs(ids []string) ([]entity.UserSummary, error)
}
