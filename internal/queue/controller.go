package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"labelscan/internal/domain"
	"labelscan/internal/infra"
	"labelscan/internal/providers/label"
)

// Config bounds the controller's dispatch behavior.
type Config struct {
	// Concurrency is the maximum number of extractions in flight at once.
	Concurrency int
	// PauseAfter is the number of completed extractions that triggers a
	// cooldown. Failed extractions do not count; they never consumed the
	// provider's request budget the cooldown exists to protect.
	PauseAfter int
	// Cooldown is how long dispatch stays frozen once triggered.
	Cooldown time.Duration
	// Timeout bounds each individual extraction call.
	Timeout time.Duration
	// Tick is the countdown granularity. Zero means one second.
	Tick time.Duration
}

// State is a point-in-time view of the controller for the presentation layer.
type State struct {
	CoolingDown        bool `json:"coolingDown"`
	CooldownRemaining  int  `json:"cooldownRemaining"`
	Inflight           int  `json:"inflight"`
	CompletedSinceRest int  `json:"completedSinceRest"`
}

// Controller reacts to store changes and cooldown ticks, promoting queued
// items to loading and running one extraction goroutine per promoted item.
// It has no terminal state: with nothing queued or loading it simply blocks
// until the collection changes again.
type Controller struct {
	store     *Store
	extractor label.Extractor
	cfg       Config
	logger    infra.Logger

	mu            sync.Mutex
	inflight      int
	completed     int
	coolingDown   bool
	cooldownTicks int
}

// NewController wires a controller to its store and extractor.
func NewController(store *Store, extractor label.Extractor, cfg Config, logger infra.Logger) *Controller {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PauseAfter <= 0 {
		cfg.PauseAfter = 8
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 70 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second
	}
	return &Controller{
		store:     store,
		extractor: extractor,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run drives the dispatch loop until ctx is cancelled. In-flight extractions
// inherit ctx and are cancelled with it.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.Tick)
	defer ticker.Stop()

	c.logger.Info().
		Int("concurrency", c.cfg.Concurrency).
		Int("pause_after", c.cfg.PauseAfter).
		Dur("cooldown", c.cfg.Cooldown).
		Msg("controller: started")

	for {
		c.dispatch(ctx)
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("controller: stopped")
			return
		case <-c.store.Changes():
		case <-ticker.C:
			c.tickCooldown()
		}
	}
}

// State returns the current throttle view.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		CoolingDown:        c.coolingDown,
		CooldownRemaining:  c.remainingSecondsLocked(),
		Inflight:           c.inflight,
		CompletedSinceRest: c.completed,
	}
}

func (c *Controller) dispatch(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	c.mu.Lock()
	if c.coolingDown {
		c.mu.Unlock()
		return
	}
	capacity := c.cfg.Concurrency - c.inflight
	c.mu.Unlock()
	if capacity <= 0 {
		return
	}

	for _, item := range c.store.Snapshot() {
		if capacity <= 0 {
			break
		}
		if item.Status != domain.StatusQueued {
			continue
		}
		if err := c.store.MarkLoading(item.ID); err != nil {
			// Deleted between snapshot and promotion.
			continue
		}
		capacity--
		c.mu.Lock()
		c.inflight++
		c.mu.Unlock()
		go c.extract(ctx, item)
	}
}

func (c *Controller) extract(ctx context.Context, item domain.Item) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	fields, err := c.extractor.Extract(callCtx, label.Request{
		FileName: item.FileName,
		MIMEType: item.MIMEType,
		Data:     item.ImageData,
	})

	if err != nil {
		message := fmt.Sprintf("extraction failed for %s: %v", item.FileName, err)
		c.logger.Warn().Err(err).Str("item_id", item.ID).Str("file", item.FileName).Msg("controller: extraction failed")
		if markErr := c.store.MarkError(item.ID, message); markErr != nil {
			c.discarded(item.ID, markErr)
		}
	} else {
		// Count the completion and arm the cooldown before the store mark
		// becomes visible. The mark wakes the dispatch loop; if the flag were
		// set afterwards, a wakeup in that window could admit one extra item
		// past the threshold. The provider request was made either way, so
		// the count stands even when the item was deleted mid-flight.
		c.noteCompletion()
		if markErr := c.store.MarkDone(item.ID, fields); markErr != nil {
			c.discarded(item.ID, markErr)
		}
	}

	c.mu.Lock()
	c.inflight--
	c.mu.Unlock()
}

func (c *Controller) noteCompletion() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.completed++
	if c.completed >= c.cfg.PauseAfter {
		c.completed = 0
		c.coolingDown = true
		c.cooldownTicks = int(c.cfg.Cooldown / c.cfg.Tick)
		c.logger.Info().Int("ticks", c.cooldownTicks).Msg("controller: cooldown started")
	}
}

func (c *Controller) tickCooldown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.coolingDown {
		return
	}
	c.cooldownTicks--
	if c.cooldownTicks <= 0 {
		c.cooldownTicks = 0
		c.coolingDown = false
		c.logger.Info().Msg("controller: cooldown finished")
	}
}

func (c *Controller) discarded(id string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.logger.Debug().Str("item_id", id).Msg("controller: result for deleted item discarded")
		return
	}
	c.logger.Error().Err(err).Str("item_id", id).Msg("controller: failed to record result")
}

// remainingSecondsLocked converts remaining ticks into whole seconds for the
// visible countdown.
func (c *Controller) remainingSecondsLocked() int {
	if !c.coolingDown {
		return 0
	}
	remaining := time.Duration(c.cooldownTicks) * c.cfg.Tick
	secs := int(remaining / time.Second)
	if secs == 0 && remaining > 0 {
		secs = 1
	}
	return secs
}
