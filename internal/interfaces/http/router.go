package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/application/sales"
	"github.com/jhoicas/tienda-inventario/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *inventory.RegisterMovementUseCase
	InventoryQuery   *inventory.QueryUseCase
	CreateSale       *sales.CreateSaleUseCase
	VoidSale         *sales.VoidSaleUseCase
	SalesQuery       *sales.QueryUseCase
	JWTSecret        string
	Log              *logger.Logger
	// Metrics y Gatherer son opcionales; sin ellos no se expone /metrics.
	Metrics  RequestObserver
	Gatherer prometheus.Gatherer
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
	}
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// El token es opcional: solo identifica al usuario que registra los movimientos.
	api := app.Group("/api", ActorMiddleware(deps.JWTSecret))

	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.InventoryQuery, deps.Log.Component("inventory"))
	inv.Post("/entries", inventoryHandler.RegisterEntry)
	inv.Post("/adjustments", inventoryHandler.RegisterAdjustment)
	inv.Post("/transfers", inventoryHandler.Transfer)
	inv.Get("/positions", inventoryHandler.ListPositions)
	inv.Get("/position", inventoryHandler.GetPosition)
	inv.Get("/positions/:id/movements", inventoryHandler.ListMovements)
	inv.Get("/movements", inventoryHandler.ListMovementsByReference)
	inv.Get("/low-stock", inventoryHandler.LowStock)

	sls := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.VoidSale, deps.SalesQuery, deps.InventoryQuery, deps.Log.Component("sales"))
	sls.Post("/", saleHandler.Create)
	sls.Get("/folio/:folio", saleHandler.GetByFolio)
	sls.Get("/folio/:folio/movements", saleHandler.ListMovements)
	sls.Get("/:id", saleHandler.GetByID)
	sls.Get("/:id/receipt", saleHandler.Receipt)
	sls.Delete("/:id", saleHandler.Void)
}
