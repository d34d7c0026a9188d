package usecase_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/application/usecase"
	"github.com/jhoicas/CRM-api/internal/domain"
)

const testCallerID = "00000000-0000-0000-0000-0000000000aa"

func newLeadUC() (*usecase.LeadUseCase, *fakeLeadRepo, *fakeDealRepo) {
	leadRepo := newFakeLeadRepo()
	dealRepo := newFakeDealRepo()
	return usecase.NewLeadUseCase(leadRepo, dealRepo), leadRepo, dealRepo
}

func validLeadRequest() dto.CreateLeadRequest {
	return dto.CreateLeadRequest{
		FirstName:     "Ana",
		LastName:      "García",
		Email:         "ana@acme.com",
		ContactNumber: "555-0101",
		CompanyName:   "Acme",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestLeadCreate_AplicaDefaults(t *testing.T) {
	uc, _, _ := newLeadUC()

	lead, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err)
	require.NotNil(t, lead)

	assert.NotEmpty(t, lead.ID, "debe generarse un ID")
	assert.Equal(t, "new", lead.Status, "status por defecto debe ser new")
	assert.Equal(t, "Ana", lead.FirstName)
	assert.False(t, lead.CreatedAt.IsZero())
}

func TestLeadCreate_CamposObligatorios(t *testing.T) {
	uc, _, _ := newLeadUC()

	for _, mutate := range []func(*dto.CreateLeadRequest){
		func(r *dto.CreateLeadRequest) { r.FirstName = "" },
		func(r *dto.CreateLeadRequest) { r.LastName = "" },
		func(r *dto.CreateLeadRequest) { r.Email = "" },
		func(r *dto.CreateLeadRequest) { r.ContactNumber = "" },
	} {
		in := validLeadRequest()
		mutate(&in)
		_, err := uc.Create(in, testCallerID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestLeadCreate_EmailInvalido(t *testing.T) {
	uc, _, _ := newLeadUC()

	for _, email := range []string{"sin-arroba", "a@b", "a b@c.com", "@c.com"} {
		in := validLeadRequest()
		in.Email = email
		_, err := uc.Create(in, testCallerID)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail, "email %q debe rechazarse", email)
	}
}

func TestLeadCreate_EmailDuplicado(t *testing.T) {
	uc, _, _ := newLeadUC()

	_, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err)

	otro := validLeadRequest()
	otro.FirstName = "Otra"
	_, err = uc.Create(otro, testCallerID)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// El borrado lógico libera el email: un lead eliminado no bloquea un registro nuevo.
func TestLeadDelete_LiberaEmail(t *testing.T) {
	uc, _, _ := newLeadUC()

	lead, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err)
	require.NoError(t, uc.Delete(lead.ID))

	_, err = uc.GetByID(lead.ID)
	assert.ErrorIs(t, err, domain.ErrLeadNotFound, "lead eliminado no debe ser visible")

	recreado, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err, "el email del lead eliminado debe quedar libre")
	assert.NotEqual(t, lead.ID, recreado.ID)
}

func TestLeadDelete_NoExiste(t *testing.T) {
	uc, _, _ := newLeadUC()
	assert.ErrorIs(t, uc.Delete("no-existe"), domain.ErrLeadNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update parcial
// ──────────────────────────────────────────────────────────────────────────────

func TestLeadUpdate_SoloCamposPresentes(t *testing.T) {
	uc, _, _ := newLeadUC()

	lead, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err)

	status := "contacted"
	out, err := uc.Update(lead.ID, dto.UpdateLeadRequest{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "contacted", out.Status)
	assert.Equal(t, lead.FirstName, out.FirstName, "los campos ausentes no deben cambiar")
	assert.Equal(t, lead.Email, out.Email)
}

// Cambiar el email al mismo valor no debe chocar con el propio registro.
func TestLeadUpdate_EmailPropioNoColisiona(t *testing.T) {
	uc, _, _ := newLeadUC()

	lead, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err)

	email := lead.Email
	_, err = uc.Update(lead.ID, dto.UpdateLeadRequest{Email: &email})
	assert.NoError(t, err)
}

func TestLeadUpdate_EmailDeOtroLead(t *testing.T) {
	uc, _, _ := newLeadUC()

	_, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err)

	otro := validLeadRequest()
	otro.Email = "otro@acme.com"
	lead2, err := uc.Create(otro, testCallerID)
	require.NoError(t, err)

	tomado := "ana@acme.com"
	_, err = uc.Update(lead2.ID, dto.UpdateLeadRequest{Email: &tomado})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLeadUpdate_NoExiste(t *testing.T) {
	uc, _, _ := newLeadUC()
	_, err := uc.Update("no-existe", dto.UpdateLeadRequest{})
	assert.ErrorIs(t, err, domain.ErrLeadNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestLeadList_Paginacion(t *testing.T) {
	uc, _, _ := newLeadUC()

	for i := 0; i < 25; i++ {
		in := validLeadRequest()
		in.Email = fmt.Sprintf("lead%02d@acme.com", i)
		_, err := uc.Create(in, testCallerID)
		require.NoError(t, err)
	}

	out, err := uc.List(dto.LeadSearchRequest{})
	require.NoError(t, err)

	assert.Equal(t, 25, out.TotalCount)
	assert.Equal(t, 3, out.PageCount, "ceil(25/10) = 3")
	assert.Len(t, out.LeadList, 10, "página por defecto de 10 resultados")
}

func TestLeadList_Vacia(t *testing.T) {
	uc, _, _ := newLeadUC()

	out, err := uc.List(dto.LeadSearchRequest{})
	require.NoError(t, err)

	assert.Equal(t, 0, out.TotalCount)
	assert.Equal(t, 0, out.PageCount)
	assert.NotNil(t, out.LeadList, "la lista vacía debe serializar como [], no null")
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversión Lead → Deal
// ──────────────────────────────────────────────────────────────────────────────

func TestConvertToDeal_SiembraDesdeElLead(t *testing.T) {
	uc, _, _ := newLeadUC()

	lead, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err)

	deal, err := uc.ConvertToDeal(lead.ID, dto.ConvertLeadRequest{}, testCallerID)
	require.NoError(t, err)
	require.NotNil(t, deal)

	assert.Equal(t, "Ana García (Acme)", deal.Title, "título sembrado desde nombre y empresa")
	assert.Equal(t, "USD", deal.Currency)
	assert.Equal(t, "open", deal.Status)
	assert.True(t, deal.Amount.IsZero())
}

func TestConvertToDeal_DealReferenciaAlLead(t *testing.T) {
	uc, _, dealRepo := newLeadUC()

	lead, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err)

	out, err := uc.ConvertToDeal(lead.ID, dto.ConvertLeadRequest{}, testCallerID)
	require.NoError(t, err)

	stored, err := dealRepo.GetByID(out.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.LeadID)
	assert.Equal(t, lead.ID, *stored.LeadID)
}

// La conversión no es idempotente: convertir dos veces produce dos deals distintos.
func TestConvertToDeal_DosVecesDosDeals(t *testing.T) {
	uc, _, dealRepo := newLeadUC()

	lead, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err)

	d1, err := uc.ConvertToDeal(lead.ID, dto.ConvertLeadRequest{}, testCallerID)
	require.NoError(t, err)
	d2, err := uc.ConvertToDeal(lead.ID, dto.ConvertLeadRequest{}, testCallerID)
	require.NoError(t, err)

	assert.NotEqual(t, d1.ID, d2.ID)
	assert.Len(t, dealRepo.deals, 2)
}

func TestConvertToDeal_Overrides(t *testing.T) {
	uc, _, _ := newLeadUC()

	lead, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err)

	title := "Renovación anual"
	prob := 60
	deal, err := uc.ConvertToDeal(lead.ID, dto.ConvertLeadRequest{Title: &title, Probability: &prob}, testCallerID)
	require.NoError(t, err)

	assert.Equal(t, "Renovación anual", deal.Title)
	assert.Equal(t, 60, deal.Probability)
}

func TestConvertToDeal_ActualizaStatusDelLead(t *testing.T) {
	uc, _, _ := newLeadUC()

	lead, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err)

	leadStatus := "converted"
	_, err = uc.ConvertToDeal(lead.ID, dto.ConvertLeadRequest{LeadStatus: &leadStatus}, testCallerID)
	require.NoError(t, err)

	actualizado, err := uc.GetByID(lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "converted", actualizado.Status)
}

func TestConvertToDeal_LeadNoExiste(t *testing.T) {
	uc, _, _ := newLeadUC()
	_, err := uc.ConvertToDeal("no-existe", dto.ConvertLeadRequest{}, testCallerID)
	assert.ErrorIs(t, err, domain.ErrLeadNotFound)
}

func TestConvertToDeal_ProbabilidadFueraDeRango(t *testing.T) {
	uc, _, _ := newLeadUC()

	lead, err := uc.Create(validLeadRequest(), testCallerID)
	require.NoError(t, err)

	prob := 101
	_, err = uc.ConvertToDeal(lead.ID, dto.ConvertLeadRequest{Probability: &prob}, testCallerID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
