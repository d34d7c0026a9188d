package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/application/usecase"
)

// DealHandler maneja las peticiones HTTP de deals (protegido, solo admin).
type DealHandler struct {
	uc *usecase.DealUseCase
}

// NewDealHandler construye el handler.
func NewDealHandler(uc *usecase.DealUseCase) *DealHandler {
	return &DealHandler{uc: uc}
}

// Create godoc
// @Summary      Crear deal
// @Tags         deals
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDealRequest  true  "datos del deal"
// @Success      201   {object}  dto.DealResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deals [post]
func (h *DealHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDealRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	deal, err := h.uc.Create(in, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"deal": deal})
}

// List POST /api/deals/list — búsqueda paginada con filtros tipados.
func (h *DealHandler) List(c *fiber.Ctx) error {
	var in dto.DealSearchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.List(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Statistics GET /api/deals/statistics?assigned_to=&lead_id=&start_date=&end_date=
// Las fechas aceptan YYYY-MM-DD o RFC 3339.
func (h *DealHandler) Statistics(c *fiber.Ctx) error {
	in := dto.DealStatsRequest{
		AssignedTo: c.Query("assigned_to"),
		LeadID:     c.Query("lead_id"),
	}
	var err error
	if in.StartDate, err = parseQueryDate(c.Query("start_date")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start_date inválida"})
	}
	if in.EndDate, err = parseQueryDate(c.Query("end_date")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end_date inválida"})
	}
	out, err := h.uc.Statistics(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/deals/:id
func (h *DealHandler) GetByID(c *fiber.Ctx) error {
	deal, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"deal": deal})
}

// Update PUT /api/deals/:id — actualización parcial.
func (h *DealHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDealRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	deal, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"deal": deal})
}

// Delete DELETE /api/deals/:id — borrado lógico.
func (h *DealHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deal eliminado"})
}

// parseQueryDate acepta fecha sola o timestamp completo; vacío → nil.
func parseQueryDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
