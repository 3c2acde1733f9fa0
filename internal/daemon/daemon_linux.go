//go:build linux

package daemon

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/treetile/internal/config"
	"github.com/1broseidon/treetile/internal/hotkeys"
	"github.com/1broseidon/treetile/internal/ipc"
	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/runtimepath"
	"github.com/rs/zerolog"
)

// Options configures Run.
type Options struct {
	// ConfigPath is re-read on reload. Empty means the default location.
	ConfigPath string
	Config     *config.Config
	Logger     zerolog.Logger
}

// Run connects to the X server and manages windows until ctx is cancelled
// or the process receives SIGINT or SIGTERM. SIGHUP reloads the config.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return err
	}
	defer backend.Disconnect()

	dctx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	dispatcher := NewDispatcher(0, logger)
	go dispatcher.Run(dctx)

	session := NewSession(SessionConfig{
		Backend:    backend,
		Geometry:   backend,
		Notifier:   backend,
		Workspaces: cfg.Workspaces,
		Post:       dispatcher.Post,
		Logger:     logger,
	})

	reconciler := NewReconciler(ReconcilerConfig{
		Interval: cfg.ReconcileInterval(),
		Logger:   logger,
	}, session, dispatcher.Post)

	keys := hotkeys.NewHandler(backend, logger)
	defer keys.Unbind()
	runAction := func(a hotkeys.Action) {
		if a.Kind == hotkeys.ActionPick {
			launchPicker(logger)
			return
		}
		dispatcher.Post(func() {
			if err := session.Perform(a); err != nil {
				logger.Warn().Err(err).Stringer("action", a).Msg("hotkey action failed")
			}
		})
	}
	logger.Info().Int("count", keys.Bind(cfg.Hotkeys, runAction)).Msg("hotkeys registered")

	reload := func() error {
		path := opts.ConfigPath
		if path == "" {
			p, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			path = p
		}
		res, err := config.LoadFromPath(path)
		if err != nil {
			return err
		}
		next := res.Config

		keys.Unbind()
		bound := keys.Bind(next.Hotkeys, runAction)
		dispatcher.Post(func() {
			for _, name := range next.Workspaces {
				session.Workspaces().Get(name)
			}
			session.Refresh()
		})
		logger.Info().Str("path", path).Int("hotkeys", bound).Msg("config reloaded")
		return nil
	}

	if err := backend.WatchClientList(reconciler.Trigger); err != nil {
		logger.Warn().Err(err).Msg("client list watch unavailable, relying on periodic reconcile")
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return fmt.Errorf("failed to resolve socket path: %w", err)
	}
	server := ipc.NewServer(socketPath, NewController(dispatcher, session, reload), logger)
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	dispatcher.Post(reconciler.ReconcileNow)

	rctx, stopReconciler := context.WithCancel(ctx)
	defer stopReconciler()
	go reconciler.Run(rctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-rctx.Done():
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info().Msg("received SIGHUP, reloading config")
					if err := reload(); err != nil {
						logger.Error().Err(err).Msg("config reload failed")
					}
					continue
				}
				logger.Info().Stringer("signal", sig).Msg("shutting down")
				stopReconciler()
			}
		}
	}()

	// The loop ends once the connection is closed on return.
	go backend.EventLoop()
	logger.Info().Str("socket", socketPath).Msg("treetile daemon started")
	<-rctx.Done()
	backend.Quit()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var restored int
	if err := dispatcher.Call(shutdownCtx, func() error {
		restored = session.RestoreAll()
		return nil
	}); err != nil {
		logger.Warn().Err(err).Msg("failed to restore hidden windows")
	}
	logger.Info().Int("restored", restored).Msg("treetile daemon stopped")
	return nil
}

// launchPicker runs "treetile pick" so the launcher does not block the X
// event loop.
func launchPicker(logger zerolog.Logger) {
	exe, err := os.Executable()
	if err != nil {
		logger.Error().Err(err).Msg("picker: failed to find executable")
		return
	}
	cmd := exec.Command(exe, "pick")
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		logger.Error().Err(err).Msg("picker: failed to launch")
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debug().Err(err).Msg("picker exited")
		}
	}()
}
