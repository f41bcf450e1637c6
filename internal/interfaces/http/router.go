package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/almacen-api/internal/application/alerts"
	"github.com/grupoandino/almacen-api/internal/application/catalog"
	"github.com/grupoandino/almacen-api/internal/application/ledger"
	"github.com/grupoandino/almacen-api/internal/application/procurement"
	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC *catalog.UseCase
	ApplyUC   *ledger.ApplyEntryUseCase
	QueryUC   *ledger.QueryUseCase
	AlertUC   *alerts.UseCase
	POUC      *procurement.POUseCase
	GRNUC     *procurement.GRNUseCase
	InvoiceUC *procurement.InvoiceUseCase
	ReturnUC  *procurement.ReturnUseCase
	Feed      *events.Feed
}

// Router registra las rutas de la API. Las operaciones de escritura pasan por
// ActorMiddleware: todo asiento y todo documento queda firmado por X-Actor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	actor := ActorMiddleware()

	// Materiales
	materials := api.Group("/materials")
	materialHandler := NewMaterialHandler(deps.CatalogUC)
	materials.Get("/", materialHandler.List)
	materials.Get("/health", materialHandler.StockHealth)
	materials.Post("/", actor, materialHandler.Create)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", materialHandler.Update)
	materials.Get("/:id/lots", materialHandler.ListLots)

	// Libro de stock
	ledgerHandler := NewLedgerHandler(deps.ApplyUC, deps.QueryUC)
	materials.Get("/:id/ledger", ledgerHandler.ListByMaterial)
	materials.Get("/:id/replay", ledgerHandler.Replay)
	ledgerGroup := api.Group("/ledger")
	ledgerGroup.Post("/entries", actor, ledgerHandler.ApplyEntry)
	ledgerGroup.Get("/documents/:ref", ledgerHandler.ListByDocument)

	// Alertas
	alertsGroup := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alertsGroup.Get("/", alertHandler.ListOpen)
	alertsGroup.Post("/:id/acknowledge", actor, alertHandler.Acknowledge)
	materials.Get("/:id/alerts", alertHandler.ListByMaterial)

	// Vencimientos
	expiryHandler := NewExpiryHandler(deps.CatalogUC)
	api.Post("/expiry/sweep", expiryHandler.Sweep)

	// Proveedores
	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.CatalogUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Órdenes de compra
	pos := api.Group("/purchase-orders")
	poHandler := NewPOHandler(deps.POUC)
	pos.Post("/", actor, poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/:id", poHandler.GetByID)
	pos.Post("/:id/submit", actor, poHandler.Submit)
	pos.Post("/:id/approve", actor, poHandler.Approve)
	pos.Post("/:id/cancel", actor, poHandler.Cancel)
	pos.Post("/:id/close", actor, poHandler.Close)

	// Notas de recepción
	grns := api.Group("/grns")
	grnHandler := NewGRNHandler(deps.GRNUC)
	grns.Post("/", actor, grnHandler.Create)
	grns.Get("/", grnHandler.List)
	grns.Get("/:id", grnHandler.GetByID)
	grns.Post("/:id/submit", actor, grnHandler.Submit)
	grns.Post("/:id/inspection", actor, grnHandler.RecordInspection)

	// Facturas de almacén
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", actor, invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/issue", actor, invoiceHandler.Issue)

	// Devoluciones a proveedor
	returns := api.Group("/returns")
	returnHandler := NewReturnHandler(deps.ReturnUC)
	returns.Post("/", actor, returnHandler.Create)
	returns.Get("/", returnHandler.List)
	returns.Get("/:id", returnHandler.GetByID)
	returns.Post("/:id/send", actor, returnHandler.Send)
	returns.Post("/:id/acknowledge", actor, returnHandler.Acknowledge)

	// Feed de cambios
	eventsHandler := NewEventsHandler(deps.Feed)
	api.Get("/events", eventsHandler.Stream)
}
