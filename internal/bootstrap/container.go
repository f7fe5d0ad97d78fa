// Package bootstrap wires configuration into repositories, services and the
// task router shared by the API server and the worker.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	eventapp "github.com/van-william/carbon-sub017/internal/application/event"
	"github.com/van-william/carbon-sub017/internal/application/catalog"
	"github.com/van-william/carbon-sub017/internal/application/notification"
	partnerapp "github.com/van-william/carbon-sub017/internal/application/partner"
	printingapp "github.com/van-william/carbon-sub017/internal/application/printing"
	productionapp "github.com/van-william/carbon-sub017/internal/application/production"
	purchasingapp "github.com/van-william/carbon-sub017/internal/application/purchasing"
	salesapp "github.com/van-william/carbon-sub017/internal/application/sales"
	sequenceapp "github.com/van-william/carbon-sub017/internal/application/sequence"
	webhookapp "github.com/van-william/carbon-sub017/internal/application/webhook"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
	"github.com/van-william/carbon-sub017/internal/infrastructure/event"
	"github.com/van-william/carbon-sub017/internal/infrastructure/persistence"
	infraprinting "github.com/van-william/carbon-sub017/internal/infrastructure/printing"
	"github.com/van-william/carbon-sub017/internal/infrastructure/printing/providers"
	"github.com/van-william/carbon-sub017/internal/infrastructure/queue"
	"github.com/van-william/carbon-sub017/internal/infrastructure/storage"
	"github.com/van-william/carbon-sub017/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Repositories groups the gorm repositories
type Repositories struct {
	Customers      *persistence.GormCustomerRepository
	Suppliers      *persistence.GormSupplierRepository
	Parts          *persistence.GormPartRepository
	Quotes         *persistence.GormQuoteRepository
	SalesOrders    *persistence.GormSalesOrderRepository
	PurchaseOrders *persistence.GormPurchaseOrderRepository
	Jobs           *persistence.GormJobRepository
	Sequences      *persistence.GormSequenceRepository
}

// Services groups the application services
type Services struct {
	Sequences      *sequenceapp.Service
	Customers      *partnerapp.CustomerService
	Suppliers      *partnerapp.SupplierService
	Parts          *catalog.PartService
	Quotes         *salesapp.QuoteService
	SalesOrders    *salesapp.SalesOrderService
	PurchaseOrders *purchasingapp.PurchaseOrderService
	Jobs           *productionapp.JobService
	Documents      *printingapp.DocumentService
}

// Container holds everything built from one Config
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Database     *persistence.Database
	Repositories Repositories
	Services     Services
	// Tasks routes task types to handlers; the memory dispatcher and the
	// worker's consumers both deliver into it
	Tasks      *queue.Router
	Dispatcher queue.Dispatcher
	EventBus   *event.InMemoryEventBus

	closers []func() error
}

// New connects to the database and the task queue and builds every service
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: log}

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	c.Database = db
	c.closers = append(c.closers, db.Close)

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Database.SlowQueryThresh,
	}); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to register database tracing: %w", err)
	}

	c.Repositories = Repositories{
		Customers:      persistence.NewGormCustomerRepository(db.DB),
		Suppliers:      persistence.NewGormSupplierRepository(db.DB),
		Parts:          persistence.NewGormPartRepository(db.DB),
		Quotes:         persistence.NewGormQuoteRepository(db.DB),
		SalesOrders:    persistence.NewGormSalesOrderRepository(db.DB),
		PurchaseOrders: persistence.NewGormPurchaseOrderRepository(db.DB),
		Jobs:           persistence.NewGormJobRepository(db.DB),
		Sequences:      persistence.NewGormSequenceRepository(db.DB),
	}

	c.Tasks = queue.NewRouter(log)
	dispatcher, err := queue.NewDispatcher(cfg.Queue, c.Tasks, log)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to create task dispatcher: %w", err)
	}
	c.Dispatcher = dispatcher
	c.closers = append(c.closers, dispatcher.Close)

	archive, err := newArchive(ctx, cfg, log)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.EventBus = event.NewInMemoryEventBus(log)
	if err := c.buildServices(cfg, archive, log); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.registerTasks()
	c.subscribeEvents(archive != nil)

	return c, nil
}

func (c *Container) buildServices(cfg *config.Config, archive printing.Archive, log *zap.Logger) error {
	r := c.Repositories
	bus := c.EventBus

	sequences := sequenceapp.NewService(r.Sequences)

	customers := partnerapp.NewCustomerService(r.Customers, sequences)
	customers.SetEventPublisher(bus)
	suppliers := partnerapp.NewSupplierService(r.Suppliers, sequences)
	suppliers.SetEventPublisher(bus)

	quotes := salesapp.NewQuoteService(salesapp.QuoteServiceConfig{
		QuoteRepo:      r.Quotes,
		OrderRepo:      r.SalesOrders,
		CustomerRepo:   r.Customers,
		PartRepo:       r.Parts,
		Sequences:      sequences,
		Dispatcher:     c.Dispatcher,
		EventPublisher: bus,
	})
	orders := salesapp.NewSalesOrderService(r.SalesOrders, r.Customers, r.Parts, sequences)
	orders.SetEventPublisher(bus)
	purchaseOrders := purchasingapp.NewPurchaseOrderService(r.PurchaseOrders, r.Suppliers, r.Parts, sequences)
	purchaseOrders.SetEventPublisher(bus)
	jobs := productionapp.NewJobService(r.Jobs, r.Parts, r.SalesOrders, sequences)
	jobs.SetEventPublisher(bus)

	documents, err := c.newDocumentService(cfg, archive, log)
	if err != nil {
		return err
	}

	c.Services = Services{
		Sequences:      sequences,
		Customers:      customers,
		Suppliers:      suppliers,
		Parts:          catalog.NewPartService(r.Parts),
		Quotes:         quotes,
		SalesOrders:    orders,
		PurchaseOrders: purchaseOrders,
		Jobs:           jobs,
		Documents:      documents,
	}
	return nil
}

func (c *Container) newDocumentService(cfg *config.Config, archive printing.Archive, log *zap.Logger) (*printingapp.DocumentService, error) {
	r := c.Repositories
	templates, err := infraprinting.NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to parse document templates: %w", err)
	}
	renderer := infraprinting.NewChromedpRenderer(infraprinting.ChromedpConfigFrom(cfg.Printing, log))
	c.closers = append(c.closers, renderer.Close)

	return printingapp.NewDocumentService(printingapp.DocumentServiceConfig{
		Loader: providers.NewDataProviderRegistry(
			providers.NewQuoteProvider(r.Quotes, r.Customers),
			providers.NewSalesOrderProvider(r.SalesOrders, r.Customers),
			providers.NewPurchaseOrderProvider(r.PurchaseOrders, r.Suppliers),
			providers.NewJobProvider(r.Jobs, r.Parts, r.SalesOrders),
		),
		Templates:  templates,
		Renderer:   renderer,
		Archive:    archive,
		Dispatcher: c.Dispatcher,
		PaperSize:  printing.PaperSize(cfg.Printing.PaperSize),
		Logger:     log,
	}), nil
}

func (c *Container) registerTasks() {
	c.Tasks.Register(task.TypeRecalculatePrice, salesapp.NewRecalculateTaskHandler(c.Services.Quotes))
	c.Tasks.Register(task.TypeGeneratePDF, printingapp.NewGeneratePDFTaskHandler(c.Services.Documents))
	c.Tasks.Register(task.TypeSendNotification, notification.NewTaskHandler(notification.NewLogNotifier()))
	c.Tasks.RegisterWebhook(webhookapp.NewTaskHandler(nil))
}

func (c *Container) subscribeEvents(archive bool) {
	h := eventapp.NewDocumentEventHandler(c.Dispatcher, archive)
	c.EventBus.Subscribe(h, h.EventTypes()...)
}

// newArchive returns the object store for document PDFs, or nil when
// storage is disabled
func newArchive(ctx context.Context, cfg *config.Config, log *zap.Logger) (printing.Archive, error) {
	if !cfg.Storage.Enabled {
		log.Info("Object storage disabled, documents are not archived")
		return nil, nil
	}
	s3, err := storage.NewS3Storage(ctx, &cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage: %w", err)
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare bucket %s: %w", s3.Bucket(), err)
	}
	return s3, nil
}

// Close releases every connection in reverse order of creation
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
