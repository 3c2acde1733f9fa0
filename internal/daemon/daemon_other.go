//go:build !linux

package daemon

import (
	"context"
	"errors"

	"github.com/1broseidon/treetile/internal/config"
	"github.com/rs/zerolog"
)

// Options configures Run.
type Options struct {
	ConfigPath string
	Config     *config.Config
	Logger     zerolog.Logger
}

// Run is only supported on Linux.
func Run(ctx context.Context, opts Options) error {
	return errors.New("the treetile daemon requires Linux with an X11 server")
}
