package commands

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

const shutdownTimeout = 5 * time.Second

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the configuration whenever it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("metrics-addr")

			if addr != "" {
				stop, err := c.serveMetrics(addr)
				if err != nil {
					return err
				}
				defer stop()
			}

			out := newPrinter(cmd.OutOrStdout())
			errOut := newPrinter(cmd.ErrOrStderr())
			out.line("watching for configuration changes")
			return c.app.Watch(cmd.Context(), func(err error) {
				if err != nil {
					errOut.failure("reload failed: %v", err)
					return
				}
				out.success("configuration reloaded")
			})
		},
	}
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
	return cmd
}

// serveMetrics exposes the metrics handler on addr until the returned func is called.
func (c *CLI) serveMetrics(addr string) (func(), error) {
	handler, ok := c.app.MetricsHandler()
	if !ok {
		return nil, zerr.New("metrics are not available")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to listen for metrics"), "addr", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: shutdownTimeout}
	go func() {
		_ = srv.Serve(ln)
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
