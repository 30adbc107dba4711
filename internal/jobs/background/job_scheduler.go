package background

import (
	"context"
	"sync"
	"time"

	"whimsicalfrog/internal/caching"
	"whimsicalfrog/internal/jobs"
	"whimsicalfrog/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// JobScheduler owns the recurring back-office jobs: low-stock alerts, the
// nightly stock reconciliation pass, and the periodic upsell ruleset warm.
type JobScheduler struct {
	scheduler      gocron.Scheduler
	alerts         *jobs.LowStockAlertService
	reconciliation *jobs.StockReconciliationService
	upsells        services.UpsellService
	cache          caching.CacheService
	registered     map[string]gocron.Job
	mu             sync.RWMutex
}

func NewJobScheduler(alerts *jobs.LowStockAlertService, reconciliation *jobs.StockReconciliationService, upsells services.UpsellService, cache caching.CacheService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:      scheduler,
		alerts:         alerts,
		reconciliation: reconciliation,
		upsells:        upsells,
		cache:          cache,
		registered:     make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js, nil
}

func (js *JobScheduler) Start() {
	logrus.Info("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	logrus.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(js.runLowStockAlerts),
		gocron.WithName("low-stock-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logrus.WithError(err).Error("failed to register low-stock alerts job")
	} else {
		js.registered["low-stock-alerts"] = alertsJob
	}

	reconcileJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(js.runStockReconciliation),
		gocron.WithName("stock-reconciliation"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logrus.WithError(err).Error("failed to register stock reconciliation job")
	} else {
		js.registered["stock-reconciliation"] = reconcileJob
	}

	upsellJob, err := js.scheduler.NewJob(
		gocron.DurationJob(caching.UpsellRulesetTTL),
		gocron.NewTask(js.warmUpsellRuleset),
		gocron.WithName("upsell-ruleset-warm"),
	)
	if err != nil {
		logrus.WithError(err).Error("failed to register upsell warm job")
	} else {
		js.registered["upsell-ruleset-warm"] = upsellJob
	}

	logrus.WithField("jobs", len(js.registered)).Info("background jobs registered")
}

func (js *JobScheduler) runLowStockAlerts() {
	alerts, err := js.alerts.CheckLowStock(context.Background())
	if err != nil {
		logrus.WithError(err).Error("low-stock alert pass failed")
		return
	}
	if len(alerts) > 0 {
		logrus.WithField("count", len(alerts)).Info("low-stock alerts raised")
	}
}

func (js *JobScheduler) runStockReconciliation() {
	if _, err := js.reconciliation.Reconcile(context.Background()); err != nil {
		logrus.WithError(err).Error("stock reconciliation pass failed")
	}
}

// warmUpsellRuleset keeps a fresh ruleset in the cache so storefront
// requests rarely pay the aggregate query.
func (js *JobScheduler) warmUpsellRuleset() {
	ctx := context.Background()
	ruleset, err := js.upsells.GenerateRules(ctx)
	if err != nil {
		logrus.WithError(err).Error("upsell ruleset warm failed")
		return
	}
	if err := js.cache.SetUpsellRuleset(ctx, ruleset, caching.UpsellRulesetTTL); err != nil {
		logrus.WithError(err).Warn("failed to cache warmed upsell ruleset")
	}
}
