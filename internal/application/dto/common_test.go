package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/CRM-api/internal/application/dto"
)

// ──────────────────────────────────────────────────────────────────────────────
// SearchPage / PageCount
// ──────────────────────────────────────────────────────────────────────────────

func TestSearchPage_Defaults(t *testing.T) {
	p := dto.SearchPage{}.Pagination()

	assert.Equal(t, "created_at", p.SortBy)
	assert.True(t, p.Desc, "orden por defecto descendente")
	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, 10, p.Limit)
}

func TestSearchPage_OffsetPorPagina(t *testing.T) {
	p := dto.SearchPage{Page: 3, ResultPerPage: 20, SortField: "title", SortOrder: "asc"}.Pagination()

	assert.Equal(t, "title", p.SortBy)
	assert.False(t, p.Desc)
	assert.Equal(t, 40, p.Offset, "(3-1)*20")
	assert.Equal(t, 20, p.Limit)
}

func TestSearchPage_ValoresInvalidosTomanDefaults(t *testing.T) {
	p := dto.SearchPage{Page: -5, ResultPerPage: 0}.Pagination()

	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, 10, p.Limit)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, dto.PageCount(0, 10))
	assert.Equal(t, 1, dto.PageCount(1, 10))
	assert.Equal(t, 1, dto.PageCount(10, 10))
	assert.Equal(t, 2, dto.PageCount(11, 10))
	assert.Equal(t, 3, dto.PageCount(25, 10))
	assert.Equal(t, 0, dto.PageCount(5, 0), "limit inválido no debe dividir por cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// TruthyFlag
// ──────────────────────────────────────────────────────────────────────────────

func TestTruthyFlag_ValoresVerdaderos(t *testing.T) {
	for _, raw := range []string{`true`, `"true"`, `1`, `"1"`, `"TRUE"`} {
		var f dto.TruthyFlag
		require.NoError(t, json.Unmarshal([]byte(raw), &f))
		assert.True(t, f.True(), "%s debe contar como verdadero", raw)
	}
}

func TestTruthyFlag_TodoLoDemasEsFalso(t *testing.T) {
	for _, raw := range []string{`false`, `"false"`, `0`, `"0"`, `"yes"`, `""`, `null`, `2`} {
		var f dto.TruthyFlag
		require.NoError(t, json.Unmarshal([]byte(raw), &f), "los valores desconocidos se ignoran, no se rechazan")
		assert.False(t, f.True(), "%s debe contar como falso", raw)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// OptionalRef / OptionalTime — ausente vs null explícito
// ──────────────────────────────────────────────────────────────────────────────

func TestOptionalRef_Ausente(t *testing.T) {
	var in struct {
		AssignedTo dto.OptionalRef `json:"assigned_to"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &in))

	assert.False(t, in.AssignedTo.Set, "campo ausente: no tocar")
}

func TestOptionalRef_NullExplicito(t *testing.T) {
	var in struct {
		AssignedTo dto.OptionalRef `json:"assigned_to"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"assigned_to": null}`), &in))

	assert.True(t, in.AssignedTo.Set, "null explícito: limpiar")
	assert.Nil(t, in.AssignedTo.Value)
}

func TestOptionalRef_StringVaciaLimpia(t *testing.T) {
	var in struct {
		AssignedTo dto.OptionalRef `json:"assigned_to"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"assigned_to": ""}`), &in))

	assert.True(t, in.AssignedTo.Set)
	assert.Nil(t, in.AssignedTo.Value, `"" cuenta como limpiar, igual que null`)
}

func TestOptionalRef_ConValor(t *testing.T) {
	var in struct {
		AssignedTo dto.OptionalRef `json:"assigned_to"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"assigned_to": "u-1"}`), &in))

	assert.True(t, in.AssignedTo.Set)
	require.NotNil(t, in.AssignedTo.Value)
	assert.Equal(t, "u-1", *in.AssignedTo.Value)
}

func TestOptionalTime_Semantica(t *testing.T) {
	var in struct {
		EndDate dto.OptionalTime `json:"end_date"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{}`), &in))
	assert.False(t, in.EndDate.Set)

	in.EndDate = dto.OptionalTime{}
	require.NoError(t, json.Unmarshal([]byte(`{"end_date": null}`), &in))
	assert.True(t, in.EndDate.Set)
	assert.Nil(t, in.EndDate.Value)

	in.EndDate = dto.OptionalTime{}
	require.NoError(t, json.Unmarshal([]byte(`{"end_date": "2026-03-01T10:00:00Z"}`), &in))
	assert.True(t, in.EndDate.Set)
	require.NotNil(t, in.EndDate.Value)
	assert.Equal(t, 2026, in.EndDate.Value.Year())
}
