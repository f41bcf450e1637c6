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

	"github.com/grupoandino/almacen-api/internal/application/alerts"
	"github.com/grupoandino/almacen-api/internal/application/catalog"
	"github.com/grupoandino/almacen-api/internal/application/ledger"
	"github.com/grupoandino/almacen-api/internal/application/procurement"
	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
	"github.com/grupoandino/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/grupoandino/almacen-api/internal/interfaces/http"
	"github.com/grupoandino/almacen-api/pkg/config"
	"github.com/grupoandino/almacen-api/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos atados al pool para lecturas; TxRunner crea su propio set por tx.
	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)

	feed := events.NewFeed(cfg.Engine.EventBuffer)
	evaluator := alerts.NewEvaluator()

	applyUC := ledger.NewApplyEntryUseCase(
		txRunner, repos.Ledger, evaluator, feed, log.Component("ledger"), cfg.Engine.ConflictRetries,
	)
	queryUC := ledger.NewQueryUseCase(repos.Materials, repos.Ledger)
	alertUC := alerts.NewUseCase(repos.Alerts, feed)
	catalogUC := catalog.NewUseCase(
		txRunner, repos.Materials, repos.Lots, repos.Suppliers,
		applyUC, evaluator, feed, log.Component("catalog"),
	)
	poUC := procurement.NewPOUseCase(txRunner, repos.PurchaseOrders, repos.Suppliers, repos.Materials, feed)
	grnUC := procurement.NewGRNUseCase(txRunner, repos.GRNs, applyUC, evaluator, feed, log.Component("procurement"))
	invoiceUC := procurement.NewInvoiceUseCase(txRunner, repos.Invoices, applyUC, feed)
	returnUC := procurement.NewReturnUseCase(txRunner, repos.Returns, applyUC, feed)

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
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC: catalogUC,
		ApplyUC:   applyUC,
		QueryUC:   queryUC,
		AlertUC:   alertUC,
		POUC:      poUC,
		GRNUC:     grnUC,
		InvoiceUC: invoiceUC,
		ReturnUC:  returnUC,
		Feed:      feed,
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
