// @title        Tienda Inventario API
// @version      1.0
// @description  Kardex y motor de movimientos de inventario para tienda de calzado y ropa.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/jhoicas/tienda-inventario/docs"
	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/application/sales"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/cache"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/tienda-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/tienda-inventario/internal/interfaces/http"
	"github.com/jhoicas/tienda-inventario/pkg/config"
	"github.com/jhoicas/tienda-inventario/pkg/logger"
)

// backend repositorios y runner de transacciones del almacenamiento elegido.
type backend struct {
	inventoryTx inventory.TxRunner
	salesTx     sales.TxRunner
	stock       repository.StockRepository
	movements   repository.MovementRepository
	sales       repository.SaleRepository
	customers   repository.CustomerRepository
	catalog     repository.CatalogRepository
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be := openBackend(ctx, cfg, log)
	defer be.close()

	// Idempotencia de ventas: opcional, sin REDIS_ADDR no se protege el doble envío.
	var guard sales.IdempotencyGuard
	if cfg.Redis.Enabled() {
		client := cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer client.Close()
		g := cache.NewIdempotencyGuard(client, cfg.Redis.IdempotencyTTL)
		if err := g.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		guard = g
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: ventas sin llave de idempotencia")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(reg)

	registerMovementUC := inventory.NewRegisterMovementUseCase(be.inventoryTx, be.catalog, recorder, log.Component("inventory"))
	inventoryQueryUC := inventory.NewQueryUseCase(be.stock, be.movements)
	createSaleUC := sales.NewCreateSaleUseCase(be.salesTx, guard, recorder, log.Component("sales"))
	voidSaleUC := sales.NewVoidSaleUseCase(be.salesTx, recorder, log.Component("sales"))

	// PDF: ticket de venta
	receiptGenerator := infrapdf.NewReceiptGenerator()
	salesQueryUC := sales.NewQueryUseCase(be.sales, be.stock, be.catalog, be.customers, receiptGenerator, cfg.Store.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "backend": cfg.Store.Backend})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegisterMovement: registerMovementUC,
		InventoryQuery:   inventoryQueryUC,
		CreateSale:       createSaleUC,
		VoidSale:         voidSaleUC,
		SalesQuery:       salesQueryUC,
		JWTSecret:        cfg.JWT.Secret,
		Log:              log,
		Metrics:          recorder,
		Gatherer:         reg,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openBackend abre PostgreSQL o, con STORE_BACKEND=memory, un almacén en memoria con datos de demostración.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) backend {
	if cfg.Store.Backend == config.BackendMemory {
		store := memory.NewSeeded()
		log.Warn().Msg("backend en memoria: los datos se pierden al reiniciar")
		return backend{
			inventoryTx: store,
			salesTx:     store,
			stock:       store.Stock(),
			movements:   store.Movements(),
			sales:       store.Sales(),
			customers:   store.Customers(),
			catalog:     store.Catalog(),
			close:       func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	txRunner := postgres.NewTxRunner(pool)
	return backend{
		inventoryTx: txRunner,
		salesTx:     txRunner,
		stock:       postgres.NewStockRepository(pool),
		movements:   postgres.NewMovementRepository(pool),
		sales:       postgres.NewSaleRepository(pool),
		customers:   postgres.NewCustomerRepository(pool),
		catalog:     postgres.NewCatalogRepository(pool),
		close:       pool.Close,
	}
}
