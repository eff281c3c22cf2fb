// Package jobs provides scheduled background tasks, built on
// github.com/robfig/cron/v3 and coordinated through JobManager.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"marketplace/internal/core/application/notifications"
	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

// ReadyOrderBroadcastJob periodically announces unassigned ready orders to
// couriers who could take them. Couriers continue to receive the broadcast
// until some dispatcher assigns the order, which is acceptable since the
// assignment itself is guarded by a conditional claim.
type ReadyOrderBroadcastJob struct {
	orders     ports.OrderRepository
	couriers   ports.CourierRepository
	vendors    ports.VendorDirectory
	dispatcher *notifications.Dispatcher
	matcher    services.CourierMatcher

	searchRadiusKm float64
	schedule       string
	runTimeout     time.Duration

	cron   *cron.Cron
	logger *slog.Logger
}

// NewReadyOrderBroadcastJob creates the broadcast job. The schedule is a
// six-field cron expression; searchRadiusKm bounds how far from the vendor a
// courier may be to get notified.
func NewReadyOrderBroadcastJob(
	orders ports.OrderRepository,
	couriers ports.CourierRepository,
	vendors ports.VendorDirectory,
	dispatcher *notifications.Dispatcher,
	searchRadiusKm float64,
	schedule string,
	logger *slog.Logger,
) *ReadyOrderBroadcastJob {
	return &ReadyOrderBroadcastJob{
		orders:         orders,
		couriers:       couriers,
		vendors:        vendors,
		dispatcher:     dispatcher,
		matcher:        services.NewCourierMatcher(),
		searchRadiusKm: searchRadiusKm,
		schedule:       schedule,
		runTimeout:     30 * time.Second,
		cron:           cron.New(cron.WithSeconds()),
		logger:         logger.With("component", "ready_order_broadcast_job"),
	}
}

// Start schedules the job.
func (j *ReadyOrderBroadcastJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.runOnce)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("ready order broadcast job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *ReadyOrderBroadcastJob) Stop() {
	j.cron.Stop()
	j.logger.Info("ready order broadcast job stopped")
}

func (j *ReadyOrderBroadcastJob) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), j.runTimeout)
	defer cancel()

	orders, err := j.orders.GetAllReadyUnassigned(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "failed to load ready orders", "error", err)
		return
	}
	if len(orders) == 0 {
		return
	}

	online, err := j.couriers.GetAllOnline(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "failed to load online couriers", "error", err)
		return
	}
	if len(online) == 0 {
		return
	}

	for _, o := range orders {
		eligible, matchErr := j.eligibleFor(ctx, o.VendorID(), online)
		if matchErr != nil {
			j.logger.ErrorContext(ctx, "failed to match couriers for order",
				"order", o.Number(), "error", matchErr)
			continue
		}
		if len(eligible) == 0 {
			continue
		}

		j.dispatcher.Broadcast(ctx, o, ports.EventOrderAvailable, eligible)
		j.logger.InfoContext(ctx, "broadcast ready order",
			"order", o.Number(), "couriers", len(eligible))
	}
}

func (j *ReadyOrderBroadcastJob) eligibleFor(
	ctx context.Context,
	vendorID kernel.UUID,
	online []*courier.Courier,
) ([]*courier.Courier, error) {
	vendor, err := j.vendors.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	matches, err := j.matcher.FindEligible(vendor.Location, j.searchRadiusKm, online)
	if err != nil {
		return nil, err
	}

	eligible := make([]*courier.Courier, 0, len(matches))
	for _, match := range matches {
		eligible = append(eligible, match.Courier)
	}
	return eligible, nil
}
