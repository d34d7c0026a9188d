package usecase_test

import (
	"sort"
	"strings"

	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios fake en memoria para los tests de casos de uso.
// Implementan la semántica observable que los casos de uso necesitan:
// borrado lógico, (nil, nil) para registros ausentes y filtros básicos.
// ──────────────────────────────────────────────────────────────────────────────

type fakeLeadRepo struct {
	leads map[string]*entity.Lead
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: make(map[string]*entity.Lead)}
}

func (r *fakeLeadRepo) Create(lead *entity.Lead) error {
	cp := *lead
	r.leads[lead.ID] = &cp
	return nil
}

func (r *fakeLeadRepo) GetByID(id string) (*entity.Lead, error) {
	l, ok := r.leads[id]
	if !ok || l.IsDeleted {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLeadRepo) GetDetailByID(id string) (*entity.LeadDetail, error) {
	l, err := r.GetByID(id)
	if err != nil || l == nil {
		return nil, err
	}
	return &entity.LeadDetail{Lead: *l}, nil
}

func (r *fakeLeadRepo) GetByEmail(email, excludeID string) (*entity.Lead, error) {
	for _, l := range r.leads {
		if !l.IsDeleted && l.Email == email && l.ID != excludeID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLeadRepo) alive(f repository.LeadFilter) []*entity.Lead {
	var out []*entity.Lead
	for _, l := range r.leads {
		if l.IsDeleted {
			continue
		}
		if f.Status != "" && !strings.Contains(strings.ToLower(l.Status), strings.ToLower(f.Status)) {
			continue
		}
		if f.AssignedTo != "" && (l.AssignedTo == nil || *l.AssignedTo != f.AssignedTo) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeLeadRepo) ListDetails(f repository.LeadFilter, p repository.Page) ([]*entity.LeadDetail, error) {
	all := r.alive(f)
	var out []*entity.LeadDetail
	for i := p.Offset; i < len(all) && len(out) < p.Limit; i++ {
		out = append(out, &entity.LeadDetail{Lead: *all[i]})
	}
	return out, nil
}

func (r *fakeLeadRepo) Count(f repository.LeadFilter) (int, error) {
	return len(r.alive(f)), nil
}

func (r *fakeLeadRepo) Update(lead *entity.Lead) error {
	cp := *lead
	r.leads[lead.ID] = &cp
	return nil
}

func (r *fakeLeadRepo) SoftDelete(id string) error {
	l, ok := r.leads[id]
	if !ok || l.IsDeleted {
		return domain.ErrLeadNotFound
	}
	l.IsDeleted = true
	return nil
}

type fakeDealRepo struct {
	deals map[string]*entity.Deal
}

func newFakeDealRepo() *fakeDealRepo {
	return &fakeDealRepo{deals: make(map[string]*entity.Deal)}
}

func (r *fakeDealRepo) Create(deal *entity.Deal) error {
	cp := *deal
	r.deals[deal.ID] = &cp
	return nil
}

func (r *fakeDealRepo) GetByID(id string) (*entity.Deal, error) {
	d, ok := r.deals[id]
	if !ok || d.IsDeleted {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDealRepo) GetDetailByID(id string) (*entity.DealDetail, error) {
	d, err := r.GetByID(id)
	if err != nil || d == nil {
		return nil, err
	}
	return &entity.DealDetail{Deal: *d}, nil
}

func (r *fakeDealRepo) alive(f repository.DealFilter) []*entity.Deal {
	var out []*entity.Deal
	for _, d := range r.deals {
		if d.IsDeleted {
			continue
		}
		if f.Status != "" && !strings.Contains(strings.ToLower(d.Status), strings.ToLower(f.Status)) {
			continue
		}
		if f.LeadID != "" && (d.LeadID == nil || *d.LeadID != f.LeadID) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeDealRepo) ListDetails(f repository.DealFilter, p repository.Page) ([]*entity.DealDetail, error) {
	all := r.alive(f)
	var out []*entity.DealDetail
	for i := p.Offset; i < len(all) && len(out) < p.Limit; i++ {
		out = append(out, &entity.DealDetail{Deal: *all[i]})
	}
	return out, nil
}

func (r *fakeDealRepo) Count(f repository.DealFilter) (int, error) {
	return len(r.alive(f)), nil
}

func (r *fakeDealRepo) ListAll(f repository.DealStatsFilter) ([]*entity.Deal, error) {
	var out []*entity.Deal
	for _, d := range r.deals {
		if d.IsDeleted {
			continue
		}
		if f.AssignedTo != "" && (d.AssignedTo == nil || *d.AssignedTo != f.AssignedTo) {
			continue
		}
		if f.LeadID != "" && (d.LeadID == nil || *d.LeadID != f.LeadID) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDealRepo) Update(deal *entity.Deal) error {
	cp := *deal
	r.deals[deal.ID] = &cp
	return nil
}

func (r *fakeDealRepo) SoftDelete(id string) error {
	d, ok := r.deals[id]
	if !ok || d.IsDeleted {
		return domain.ErrDealNotFound
	}
	d.IsDeleted = true
	return nil
}

type fakeProjectRepo struct {
	projects map[string]*entity.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*entity.Project)}
}

func (r *fakeProjectRepo) Create(project *entity.Project) error {
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) GetByID(id string) (*entity.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.IsDeleted {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) GetDetailByID(id string) (*entity.ProjectDetail, error) {
	p, err := r.GetByID(id)
	if err != nil || p == nil {
		return nil, err
	}
	return &entity.ProjectDetail{Project: *p}, nil
}

func (r *fakeProjectRepo) alive(f repository.ProjectFilter) []*entity.Project {
	var out []*entity.Project
	for _, p := range r.projects {
		if p.IsDeleted {
			continue
		}
		if f.Status != "" && !strings.Contains(strings.ToLower(p.Status), strings.ToLower(f.Status)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeProjectRepo) ListDetails(f repository.ProjectFilter, p repository.Page) ([]*entity.ProjectDetail, error) {
	all := r.alive(f)
	var out []*entity.ProjectDetail
	for i := p.Offset; i < len(all) && len(out) < p.Limit; i++ {
		out = append(out, &entity.ProjectDetail{Project: *all[i]})
	}
	return out, nil
}

func (r *fakeProjectRepo) Count(f repository.ProjectFilter) (int, error) {
	return len(r.alive(f)), nil
}

func (r *fakeProjectRepo) Update(project *entity.Project) error {
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) SoftDelete(id string) error {
	p, ok := r.projects[id]
	if !ok || p.IsDeleted {
		return domain.ErrProjectNotFound
	}
	p.IsDeleted = true
	return nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(user *entity.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) SummariesByIDs(ids []string) ([]entity.UserSummary, error) {
	var out []entity.UserSummary
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, entity.UserSummary{
				ID:        u.ID,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Email:     u.Email,
			})
		}
	}
	return out, nil
}
