package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/application/sales"
	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/pkg/logger"
)

// HeaderIdempotencyKey header opcional para evitar registrar dos veces la misma venta.
const HeaderIdempotencyKey = "Idempotency-Key"

// SaleHandler maneja el registro, consulta y anulación de ventas.
type SaleHandler struct {
	create   *sales.CreateSaleUseCase
	void     *sales.VoidSaleUseCase
	query    *sales.QueryUseCase
	invQuery *inventory.QueryUseCase
	log      *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(
	create *sales.CreateSaleUseCase,
	void *sales.VoidSaleUseCase,
	query *sales.QueryUseCase,
	invQuery *inventory.QueryUseCase,
	log *logger.Logger,
) *SaleHandler {
	return &SaleHandler{create: create, void: void, query: query, invQuery: invQuery, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida todas las líneas contra el stock y descuenta en una sola transacción.
// @Description  Con crédito carga el saldo del cliente. Un Idempotency-Key repetido devuelve 409.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                 false  "llave de idempotencia del punto de venta"
// @Param        body             body      dto.CreateSaleRequest  true   "encabezado y líneas"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	items := make([]sales.SaleItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sales.SaleItemInput{
			StockEntryID: it.StockEntryID,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			Discount:     it.Discount,
		})
	}
	sale, err := h.create.CreateSale(c.Context(), sales.CreateSaleInput{
		Folio:             in.Folio,
		SellerID:          GetUserID(c),
		PaymentMethodID:   in.PaymentMethodID,
		CustomerID:        in.CustomerID,
		Type:              entity.SaleType(in.Type),
		InstallmentCount:  in.InstallmentCount,
		InstallmentAmount: in.InstallmentAmount,
		Items:             items,
		IdempotencyKey:    c.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Produce      json
// @Param        id   path      int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	sale, err := h.query.GetSale(c.Context(), int64(id))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// GetByFolio godoc
// @Summary      Obtener venta por folio
// @Tags         sales
// @Produce      json
// @Param        folio  path      string  true  "folio de la venta"
// @Success      200    {object}  dto.SaleResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/sales/folio/{folio} [get]
func (h *SaleHandler) GetByFolio(c *fiber.Ctx) error {
	sale, err := h.query.GetSaleByFolio(c.Context(), c.Params("folio"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// ListMovements godoc
// @Summary      Kardex de una venta
// @Description  Débitos y créditos de anulación del folio; disponible aun después de anular.
// @Tags         sales
// @Produce      json
// @Param        folio  path      string  true  "folio de la venta"
// @Success      200    {array}   dto.MovementDTO
// @Router       /api/sales/folio/{folio}/movements [get]
func (h *SaleHandler) ListMovements(c *fiber.Ctx) error {
	list, err := h.invQuery.ListMovementsForSale(c.Context(), c.Params("folio"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toMovementDTOs(list))
}

// Receipt godoc
// @Summary      Ticket de venta en PDF
// @Tags         sales
// @Produce      application/pdf
// @Param        id   path      int  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	pdf, err := h.query.Receipt(c.Context(), int64(id))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="venta-%d.pdf"`, id))
	return c.Send(pdf)
}

// Void godoc
// @Summary      Anular venta
// @Description  Reintegra cada línea con un crédito SALE_VOID_CREDIT y elimina la venta.
// @Description  Si algún registro de stock ya no existe responde 207 con las líneas no reintegradas.
// @Tags         sales
// @Produce      json
// @Param        id   path      int  true  "ID de la venta"
// @Success      200  {object}  dto.VoidSaleResponse
// @Success      207  {object}  dto.VoidSaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	res, err := h.void.VoidSale(c.Context(), int64(id), GetUserID(c))
	var partial *domain.PartialVoidError
	if errors.As(err, &partial) && res != nil {
		return c.Status(fiber.StatusMultiStatus).JSON(toVoidSaleResponse(res))
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toVoidSaleResponse(res))
}
