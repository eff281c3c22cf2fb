package cmd

import (
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/courierrepo"
	"marketplace/internal/adapters/out/postgres/customerrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/vendorrepo"
	"marketplace/internal/adapters/out/push"
	"marketplace/internal/core/application/notifications"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/metrics"
)

// nopTracker satisfies the repository tracker dependency for repositories
// used outside a unit of work, where change tracking has no transaction to
// feed into.
type nopTracker struct{}

func (nopTracker) TrackAggregate(kernel.UUID, any) {}

// CompositionRoot wires adapters, use cases, and background jobs together.
// Everything is built once at startup; handlers are cheap value types
// recreated per call site.
type CompositionRoot struct {
	config Config
	gormDB *gorm.DB
	logger *slog.Logger

	executor   *postgres.GormTxExecutor
	dispatcher *notifications.Dispatcher
}

// NewCompositionRoot builds the object graph. It fails only on broken
// notification wiring; database connectivity problems surface later, on use.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)
	executor := postgres.NewGormTxExecutor(uowFactory, logger)

	brokers := splitBrokers(config.KafkaHost)
	botSender := push.NewKafkaBotSender(brokers, config.KafkaBotTopic, logger)
	pushPublisher := push.NewKafkaPushPublisher(brokers, logger)

	dispatcher, err := notifications.NewDispatcher(
		botSender,
		pushPublisher,
		customerrepo.NewGormCustomerDirectory(gormDB),
		vendorrepo.NewGormVendorDirectory(gormDB),
		courierrepo.NewGormCourierRepository(gormDB, nopTracker{}),
		metrics.NewDispatchMetrics(prometheus.DefaultRegisterer),
		logger,
		notifications.Config{
			PushTopic:   config.KafkaPushTopic,
			AdminChatID: config.AdminChatID,
		},
	)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		logger:     logger,
		executor:   executor,
		dispatcher: dispatcher,
	}, nil
}

func splitBrokers(csv string) []string {
	brokers := make([]string, 0)
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *CompositionRoot) pricing() commands.Pricing {
	return commands.Pricing{
		DeliveryBaseFee:   kernel.Money(c.config.DeliveryBaseFee),
		DeliveryPerKmFee:  kernel.Money(c.config.DeliveryPerKmFee),
		ServiceFeePercent: c.config.ServiceFeePercent,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.executor, c.dispatcher, c.pricing())
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.executor, c.dispatcher)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.executor, c.dispatcher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.executor, c.dispatcher)
}

func (c *CompositionRoot) CreateRateOrderCommandHandler() commands.RateOrderCommandHandler {
	return commands.NewRateOrderCommandHandler(c.executor)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetEligibleCouriersQueryHandler() queries.GetEligibleCouriersQueryHandler {
	return queries.NewGetEligibleCouriersQueryHandler(c.gormDB, c.config.CourierAvgSpeedKmh)
}

// CreateHTTPServer assembles the REST surface over the use case handlers.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateAssignCourierCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateRateOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetEligibleCouriersQueryHandler(),
		c.config.CourierSearchRadiusKm,
	)
}

// CreateJobManager assembles the background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var orderRepo ports.OrderRepository = orderrepo.NewGormOrderRepository(c.gormDB, nopTracker{})
	var courierRepo ports.CourierRepository = courierrepo.NewGormCourierRepository(c.gormDB, nopTracker{})

	broadcast := jobs.NewReadyOrderBroadcastJob(
		orderRepo,
		courierRepo,
		vendorrepo.NewGormVendorDirectory(c.gormDB),
		c.dispatcher,
		c.config.CourierSearchRadiusKm,
		c.config.BroadcastSchedule,
		c.logger,
	)

	return jobs.NewJobManager(broadcast)
}
