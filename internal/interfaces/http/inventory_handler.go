package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/pkg/logger"
)

// InventoryHandler maneja entradas, ajustes, traspasos y consultas de kardex.
type InventoryHandler struct {
	uc    *inventory.RegisterMovementUseCase
	query *inventory.QueryUseCase
	log   *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, query *inventory.QueryUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, query: query, log: log}
}

// RegisterEntry godoc
// @Summary      Registrar entrada de mercancía
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      dto.EntryRequest  true  "posición (producto, talla, bodega), cantidad y costo"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/entries [post]
func (h *InventoryHandler) RegisterEntry(c *fiber.Ctx) error {
	var in dto.EntryRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	res, err := h.uc.RegisterEntry(c.Context(), inventory.EntryInput{
		ProductID:   in.ProductID,
		SizeID:      in.SizeID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		UnitCost:    in.UnitCost,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResultResponse{
		Entry:    toStockEntryDTO(res.Entry),
		Movement: toMovementDTO(res.Movement),
	})
}

// RegisterAdjustment godoc
// @Summary      Registrar ajuste manual
// @Description  type: entrada | salida | ajuste ("ajuste" suma a la posición)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AdjustmentRequest  true  "tipo, posición y cantidad"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	res, err := h.uc.RegisterAdjustment(c.Context(), inventory.AdjustmentInput{
		Kind:        inventory.AdjustmentKind(in.Type),
		ProductID:   in.ProductID,
		SizeID:      in.SizeID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResultResponse{
		Entry:    toStockEntryDTO(res.Entry),
		Movement: toMovementDTO(res.Movement),
	})
}

// Transfer godoc
// @Summary      Traspaso entre bodegas
// @Description  Débito en origen y crédito en destino en una sola transacción; ambos registros comparten referencia.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransferRequest  true  "producto, talla, bodegas y cantidad"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	res, err := h.uc.Transfer(c.Context(), inventory.TransferInput{
		ProductID:              in.ProductID,
		SizeID:                 in.SizeID,
		OriginWarehouseID:      in.FromWarehouseID,
		DestinationWarehouseID: in.ToWarehouseID,
		Quantity:               in.Quantity,
		Reason:                 in.Reason,
		UserID:                 GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		Reference:   res.Debit.Reference,
		Origin:      toStockEntryDTO(res.Origin),
		Destination: toStockEntryDTO(res.Destination),
		Debit:       toMovementDTO(res.Debit),
		Credit:      toMovementDTO(res.Credit),
	})
}

// ListPositions godoc
// @Summary      Posiciones de stock de un producto
// @Tags         inventory
// @Produce      json
// @Param        product_id  query     int  true  "ID del producto"
// @Success      200  {array}   dto.StockEntryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/positions [get]
func (h *InventoryHandler) ListPositions(c *fiber.Ctx) error {
	productID, err := strconv.ParseInt(c.Query("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "product_id requerido"})
	}
	list, err := h.query.ListPositions(c.Context(), productID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.StockEntryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, toStockEntryDTO(e))
	}
	return c.JSON(out)
}

// GetPosition godoc
// @Summary      Posición exacta (producto, talla, bodega)
// @Description  size_id / warehouse_id omitidos se buscan como nulos, no como comodín.
// @Tags         inventory
// @Produce      json
// @Param        product_id    query     int  true   "ID del producto"
// @Param        size_id       query     int  false  "ID de la talla"
// @Param        warehouse_id  query     int  false  "ID de la bodega"
// @Success      200  {object}  dto.StockEntryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/position [get]
func (h *InventoryHandler) GetPosition(c *fiber.Ctx) error {
	productID, err := strconv.ParseInt(c.Query("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "product_id requerido"})
	}
	sizeID, err := optionalInt64(c.Query("size_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "size_id inválido"})
	}
	warehouseID, err := optionalInt64(c.Query("warehouse_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "warehouse_id inválido"})
	}
	e, err := h.query.GetPosition(c.Context(), entity.StockKey{ProductID: productID, SizeID: sizeID, WarehouseID: warehouseID})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toStockEntryDTO(e))
}

// ListMovements godoc
// @Summary      Kardex de una posición
// @Tags         inventory
// @Produce      json
// @Param        id   path      int  true  "ID del registro de stock"
// @Success      200  {array}   dto.MovementDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/positions/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	list, err := h.query.ListMovementsForEntry(c.Context(), int64(id))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toMovementDTOs(list))
}

// ListMovementsByReference godoc
// @Summary      Registros de kardex por referencia
// @Description  Ambas patas de un traspaso o los movimientos de un folio.
// @Tags         inventory
// @Produce      json
// @Param        reference  query     string  true  "referencia (uuid o folio)"
// @Success      200  {array}   dto.MovementDTO
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovementsByReference(c *fiber.Ctx) error {
	ref := c.Query("reference")
	if ref == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "reference requerido"})
	}
	list, err := h.query.ListMovementsByReference(c.Context(), ref)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toMovementDTOs(list))
}

// LowStock godoc
// @Summary      Productos bajo su stock mínimo
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id  query  int  false  "Filtrar por bodega. Vacío = stock global."
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	warehouseID, err := optionalInt64(c.Query("warehouse_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "warehouse_id inválido"})
	}
	list, err := h.query.LowStock(c.Context(), warehouseID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"total":    len(list),
		"products": toLowStockDTOs(list),
	})
}

func optionalInt64(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return nil, strconv.ErrSyntax
	}
	return &v, nil
}
