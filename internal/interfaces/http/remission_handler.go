package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/hubbi/inventario-core/internal/application/dto"
	"github.com/hubbi/inventario-core/internal/application/remission"
	"github.com/hubbi/inventario-core/internal/domain"
)

// RemissionHandler expone la creación y consulta de notas de remisión,
// incluida su representación en PDF y XML.
type RemissionHandler struct {
	uc *remission.UseCase
}

// NewRemissionHandler construye el handler.
func NewRemissionHandler(uc *remission.UseCase) *RemissionHandler {
	return &RemissionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear nota de remisión sobre movimientos confirmados
// @Tags         remissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateRemissionRequest  true  "bodega, destinatario y movimientos"
// @Success      201   {object}  dto.RemissionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/remissions [post]
func (h *RemissionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRemissionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Get godoc
// @Summary      Consultar nota de remisión
// @Tags         remissions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la nota"
// @Success      200  {object}  dto.RemissionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/remissions/{id} [get]
func (h *RemissionHandler) Get(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// RenderPDF godoc
// @Summary      Descargar la nota de remisión en PDF
// @Tags         remissions
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la nota"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/remissions/{id}/pdf [get]
func (h *RemissionHandler) RenderPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.RenderPDF(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return h.mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="remision-%s.pdf"`, id))
	return c.Send(pdf)
}

// RenderXML godoc
// @Summary      Exportar la nota de remisión en XML
// @Tags         remissions
// @Produce      application/xml
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la nota"
// @Success      200  {string}  string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/remissions/{id}/xml [get]
func (h *RemissionHandler) RenderXML(c *fiber.Ctx) error {
	xml, err := h.uc.RenderXML(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(xml)
}

func (h *RemissionHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
