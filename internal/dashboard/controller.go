package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// State of the dashboard page
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Notifier is the global toast surface
type Notifier interface {
	Error(message string)
}

// Snapshot holds the raw results of the last committed batch
type Snapshot struct {
	Stats          *Stats
	Activities     []Activity
	Revenue        *ChartPayload
	PaymentMethods *ChartPayload
	Grades         *ChartPayload
	LoadedAt       time.Time
}

// Controller owns the dashboard view state for one session.
// Every Load is a batch of five concurrent fetches committed all or nothing.
type Controller struct {
	service       Service
	notifier      Notifier
	activityLimit int

	mu       sync.Mutex
	state    State
	period   Period
	latest   uint64
	snapshot Snapshot
}

func NewController(service Service, notifier Notifier, activityLimit int) *Controller {
	if activityLimit <= 0 {
		activityLimit = DefaultActivityLimit
	}
	return &Controller{
		service:       service,
		notifier:      notifier,
		activityLimit: activityLimit,
		state:         StateLoading,
		period:        PeriodWeek,
	}
}

// Load fetches a full batch for period. Only the most recently issued batch
// may commit; an older one returns ErrStaleBatch and changes nothing.
// A failed batch notifies once and keeps the previous snapshot.
func (c *Controller) Load(ctx context.Context, period Period) error {
	if _, err := ParsePeriod(string(period)); err != nil || period == "" {
		return ErrInvalidPeriod
	}

	c.mu.Lock()
	c.latest++
	token := c.latest
	c.period = period
	c.state = StateLoading
	c.mu.Unlock()

	snap, err := c.fetch(ctx, period)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.latest {
		log.Debug().
			Uint64("token", token).
			Uint64("latest", c.latest).
			Msg("discarding superseded dashboard batch")
		return ErrStaleBatch
	}

	c.state = StateReady
	if err != nil {
		log.Error().
			Err(err).
			Str("period", string(period)).
			Msg("Dashboard data fetch error")
		if c.notifier != nil {
			c.notifier.Error(MsgLoadFailed)
		}
		return fmt.Errorf("loading dashboard: %w", err)
	}

	c.snapshot = snap
	return nil
}

func (c *Controller) fetch(ctx context.Context, period Period) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := c.service.GetStats(gctx)
		snap.Stats = stats
		return err
	})
	g.Go(func() error {
		activities, err := c.service.GetRecentActivities(gctx, c.activityLimit)
		snap.Activities = activities
		return err
	})
	g.Go(func() error {
		revenue, err := c.service.GetRevenueChart(gctx, period)
		snap.Revenue = revenue
		return err
	})
	g.Go(func() error {
		methods, err := c.service.GetPaymentMethodsChart(gctx, "", "")
		snap.PaymentMethods = methods
		return err
	})
	g.Go(func() error {
		grades, err := c.service.GetGradeDistribution(gctx)
		snap.Grades = grades
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	snap.LoadedAt = time.Now()
	return snap, nil
}

// View is the render-ready dashboard, derived from the current snapshot
type View struct {
	State          State
	Period         Period
	Periods        []PeriodOption
	Tiles          StatTiles
	Activities     []ActivityItem
	Revenue        *ChartSeries
	PaymentMethods *ChartSeries
	Shares         []Share
	Grades         *ChartSeries
	LoadedAt       time.Time
}

func (c *Controller) View() View {
	c.mu.Lock()
	state, period, snap := c.state, c.period, c.snapshot
	c.mu.Unlock()

	methods := NormalizeChart(snap.PaymentMethods, PaymentMethodsDatasets)
	return View{
		State:          state,
		Period:         period,
		Periods:        PeriodOptions(),
		Tiles:          NormalizeStats(snap.Stats),
		Activities:     NormalizeActivities(snap.Activities),
		Revenue:        NormalizeChart(snap.Revenue, RevenueDatasets),
		PaymentMethods: methods,
		Shares:         PaymentShares(methods),
		Grades:         NormalizeChart(snap.Grades, GradeDatasets),
		LoadedAt:       snap.LoadedAt,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Period() Period {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.period
}
