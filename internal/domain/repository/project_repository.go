package repository

import "github.com/jhoicas/CRM-api/internal/domain/entity"

// ProjectRepository define el puerto de persistencia para Project.
// Todas las lecturas excluyen registros con is_deleted = true.
// La expansión de team_members se resuelve aparte vía UserRepository.
type ProjectRepository interface {
	Create(project *entity.Project) error
	GetByID(id string) (*entity.Project, error)
	GetDetailByID(id string) (*entity.ProjectDetail, error)
	ListDetails(f ProjectFilter, p Page) ([]*entity.ProjectDetail, error)
	Count(f ProjectFilter) (int, error)
	Update(project *entity.Project) error
	SoftDelete(id string) error
}
