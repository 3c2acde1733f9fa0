package daemon

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   zerolog.Logger
}

// Reconciler periodically brings the registry in line with the window
// system: it adopts windows it has not seen and collects windows whose
// geometry can no longer be read.
type Reconciler struct {
	interval time.Duration
	session  *Session
	post     func(func())
	trigger  chan struct{}
	logger   zerolog.Logger
}

// NewReconciler creates a new reconciler. Passes run through post so that
// they share the session's goroutine.
func NewReconciler(cfg ReconcilerConfig, session *Session, post func(func())) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	return &Reconciler{
		interval: interval,
		session:  session,
		post:     post,
		trigger:  make(chan struct{}, 1),
		logger:   cfg.Logger.With().Str("component", "reconciler").Logger(),
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info().Dur("interval", r.interval).Msg("reconciler started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("reconciler stopped")
			return
		case <-ticker.C:
			r.post(r.ReconcileNow)
		case <-r.trigger:
			r.post(r.ReconcileNow)
		}
	}
}

// Trigger requests a pass before the next tick. Safe from any goroutine.
func (r *Reconciler) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// ReconcileNow performs a single pass. It must run on the session's
// goroutine.
func (r *Reconciler) ReconcileNow() {
	s := r.session
	windows, err := s.backend.ListWindows()
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list windows")
		return
	}

	adopted := 0
	for _, pw := range windows {
		if _, ok := s.reg.Lookup(pw.ID); ok {
			continue
		}
		if s.reg.LookupOrCreate(pw.ID, s.backend.AppFor(pw.ID)) != nil {
			adopted++
		}
	}

	collected := 0
	for _, w := range s.reg.All() {
		if _, ok := w.Rect(); ok {
			continue
		}
		r.logger.Info().Uint32("window_id", uint32(w.ID())).Msg("window no longer readable, collecting")
		w.GarbageCollect()
		collected++
	}

	if adopted > 0 || collected > 0 {
		r.logger.Debug().
			Int("adopted", adopted).
			Int("collected", collected).
			Int("tracked", s.reg.Len()).
			Msg("reconcile pass")
		s.Refresh()
	}
}
