package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/infra/logger"
	"github.com/aalvaropc/ordercompat/internal/infra/mockserver"
	"github.com/aalvaropc/ordercompat/internal/infra/workspacefinder"
	"github.com/aalvaropc/ordercompat/internal/infra/yamlfixtures"
	"github.com/aalvaropc/ordercompat/internal/ports"
)

func serveCmd() *cobra.Command {
	var addr string
	var fixtures string
	var v1Deprecated bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve fixture orders on the v1, v2 and compat endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			closeLog := openLogger(cmd, "", cmd.ErrOrStderr())
			defer closeLog()
			log := logger.L()

			ws := serveWorkspace()
			if !cmd.Flags().Changed("addr") {
				addr = ws.Config.Server.Addr
			}
			if !cmd.Flags().Changed("v1-deprecated") {
				v1Deprecated = ws.Config.Server.V1Deprecated
			}

			fx, source, err := loadServeFixtures(fixtures, ws)
			if err != nil {
				return err
			}
			log.Info("serve.fixtures", "source", source)

			srv := mockserver.New(fx,
				mockserver.WithLogger(log),
				mockserver.WithV1Deprecated(v1Deprecated),
			)

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
				fmt.Fprintf(out, "Serving orders mock on http://%s (fixtures: %s)\n", a.String(), source)
				if p := logger.Path(); p != "" {
					fmt.Fprintf(out, "Logs: %s\n", p)
				}
				fmt.Fprintln(out, "Press Ctrl+C to stop.")
			})
		},
	}

	c.Flags().StringVar(&addr, "addr", domain.DefaultConfig().Server.Addr, "Listen address")
	c.Flags().StringVar(&fixtures, "fixtures", "", "Fixtures YAML (defaults to the workspace fixtures, then the built-in set)")
	c.Flags().BoolVar(&v1Deprecated, "v1-deprecated", false, "Answer 410 on /api/v1/orders for every user")
	return c
}

// serveWorkspace returns the enclosing workspace, or defaults outside one.
func serveWorkspace() workspacefinder.Workspace {
	wd, err := os.Getwd()
	if err != nil {
		return workspacefinder.Workspace{Config: domain.DefaultConfig()}
	}
	ws, err := workspacefinder.NewFinder().Open(wd)
	if err != nil {
		logger.L().Debug("serve.no_workspace", "cwd", wd, "err", err)
		return workspacefinder.Workspace{Config: domain.DefaultConfig()}
	}
	return ws
}

func loadServeFixtures(flag string, ws workspacefinder.Workspace) (ports.FixtureSource, string, error) {
	if flag != "" {
		fx, err := yamlfixtures.Load(flag)
		if err != nil {
			return nil, "", err
		}
		return fx, flag, nil
	}

	if ws.Root != "" {
		p := filepath.Join(ws.Root, ws.Config.Paths.FixturesFile)
		if fileExists(p) {
			fx, err := yamlfixtures.Load(p)
			if err != nil {
				return nil, "", err
			}
			return fx, p, nil
		}
	}

	return yamlfixtures.Builtin(), "built-in", nil
}
