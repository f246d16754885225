package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/racktower/pkg/api"
	"github.com/matzehuels/racktower/pkg/planner"
	"github.com/matzehuels/racktower/pkg/state"
)

const shutdownTimeout = 5 * time.Second

// serveCommand runs the HTTP API for a browser front end. Every change is
// saved to the same layout file the other commands use, unless
// --ephemeral keeps a scratch rack in memory.
func (c *CLI) serveCommand() *cobra.Command {
	var noCache, ephemeral bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout over a local HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), noCache, ephemeral)
		},
	}
	cmd.Flags().String(keyListen, defaultListen, "address to listen on")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep the layout in memory and never touch the state file")
	_ = c.config.BindPFlag(keyListen, cmd.Flags().Lookup(keyListen))
	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache, ephemeral bool) error {
	s, err := c.settings()
	if err != nil {
		return err
	}
	var p *planner.Planner
	source := s.StatePath
	if ephemeral {
		p, err = planner.Open(ctx, state.NewMemoryStore(nil), c.plannerOptions(s))
		source = "in-memory rack"
	} else {
		p, err = c.openPlanner(ctx)
	}
	if err != nil {
		return err
	}
	defer p.Close()

	rc, err := newCache(noCache)
	if err != nil {
		return err
	}
	defer rc.Close()

	ln, err := net.Listen("tcp", s.Listen)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           api.New(p, api.Options{Cache: rc, Logger: c.Logger}),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	c.printSuccess("Serving %s", source)
	c.printDetail("http://%s/api/rack", ln.Addr())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
