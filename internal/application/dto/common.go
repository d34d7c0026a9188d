package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchPage parámetros crudos de paginación y orden dentro del objeto de búsqueda.
// Los campos ausentes toman defaults: página 1, 10 resultados, created_at descendente.
type SearchPage struct {
	SortField     string `json:"sort_field"`
	SortOrder     string `json:"sort_order"` // asc | desc
	Page          int    `json:"page"`
	ResultPerPage int    `json:"result_per_page"`
}

// Pagination aplica defaults y resuelve los parámetros para el repositorio.
func (s SearchPage) Pagination() repository.Page {
	page := s.Page
	if page < 1 {
		page = 1
	}
	per := s.ResultPerPage
	if per < 1 {
		per = 10
	}
	sortBy := s.SortField
	if sortBy == "" {
		sortBy = "created_at"
	}
	return repository.Page{
		SortBy: sortBy,
		Desc:   !strings.EqualFold(s.SortOrder, "asc"),
		Offset: (page - 1) * per,
		Limit:  per,
	}
}

// PageCount calcula ceil(total/limit). Devuelve 0 con total 0 o limit inválido.
func PageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// TruthyFlag flag booleano laxo: acepta true, "true", 1 y "1" como verdadero.
// Cualquier otro valor cuenta como falso (los filtros desconocidos se ignoran,
// no se rechazan).
type TruthyFlag bool

func (f *TruthyFlag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	switch strings.ToLower(s) {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}

// True indica si el flag vino activado.
func (f TruthyFlag) True() bool { return bool(f) }

// OptionalRef referencia anulable en updates parciales: distingue campo ausente
// (Set=false, no tocar) de null o "" explícito (Set=true, Value=nil, limpiar).
type OptionalRef struct {
	Set   bool
	Value *string
}

func (o *OptionalRef) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		o.Value = nil
		return nil
	}
	o.Value = &s
	return nil
}

// OptionalTime fecha anulable en updates parciales, misma semántica que OptionalRef.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" || string(b) == `""` {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}
