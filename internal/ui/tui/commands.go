package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/infra/httpclient"
	"github.com/aalvaropc/ordercompat/internal/infra/httprunner"
	"github.com/aalvaropc/ordercompat/internal/infra/runstore"
	"github.com/aalvaropc/ordercompat/internal/infra/workspacefinder"
	"github.com/aalvaropc/ordercompat/internal/infra/yamlenv"
	"github.com/aalvaropc/ordercompat/internal/infra/yamlprobes"
	"github.com/aalvaropc/ordercompat/internal/ports"
	"github.com/aalvaropc/ordercompat/internal/usecase"
)

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, false)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

// cmdRunRegression runs the whole catalog. Inside a workspace the report is
// saved under its reports dir.
func cmdRunRegression(deps Deps, workspaceRoot string) tea.Cmd {
	return func() tea.Msg {
		if deps.Regression == nil {
			return regressionDoneMsg{err: errors.New("regression suite is nil")}
		}

		var store ports.ReportStore
		if workspaceRoot != "" {
			cfg, err := workspacefinder.LoadConfig(workspaceRoot)
			if err != nil {
				return regressionDoneMsg{err: err}
			}
			store = runstore.NewJSONStore(workspaceRoot, cfg, runstore.WithIndex(true))
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		rep, id, err := usecase.NewRunRegression(deps.Regression, store).Execute(ctx, "")
		return regressionDoneMsg{report: rep, id: id, err: err}
	}
}

func cmdLoadSuites(root string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := workspacefinder.LoadConfig(root)
		if err != nil {
			return suitesLoadedMsg{root: root, err: err}
		}

		loader := yamlprobes.NewLoader(
			yamlprobes.WithProbesDir(cfg.Paths.ProbesDir),
		)

		refs, err := loader.ListSuites(root)
		return suitesLoadedMsg{root: root, refs: refs, err: err}
	}
}

func listenRunner(ch <-chan probeRunDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return probeRunDoneMsg{err: errors.New("runner channel closed")}
		}
		return msg
	}
}

// startProbeRunAsync runs a suite against the workspace default environment.
func startProbeRunAsync(
	workspaceRoot, suitePath string,
	log *slog.Logger,
	debug bool,
) (chan probeRunDoneMsg, tea.Cmd) {
	ch := make(chan probeRunDoneMsg, 1)

	if log == nil {
		log = slog.Default()
	}

	go func() {
		defer close(ch)

		cfg, err := workspacefinder.LoadConfig(workspaceRoot)
		if err != nil {
			log.Error("probe.load_config.failed", "err", err)
			ch <- probeRunDoneMsg{err: err}
			return
		}

		log.Info("probe.start",
			"workspace", workspaceRoot,
			"suite_path", suitePath,
			"env", cfg.Defaults.Environment,
			"debug", debug,
		)

		suites := yamlprobes.NewLoader(
			yamlprobes.WithProbesDir(cfg.Paths.ProbesDir),
		)
		envs := yamlenv.NewLoader(
			workspaceRoot,
			yamlenv.WithEnvDir(cfg.Paths.EnvironmentsDir),
		)

		client := httpclient.New(httpclient.DefaultConfig())
		runner := httprunner.New(client)
		store := runstore.NewJSONStore(workspaceRoot, cfg, runstore.WithIndex(true))

		uc := usecase.NewRunProbes(suites, envs, runner, store)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		run, id, execErr := uc.Execute(ctx, suitePath, cfg.Defaults.Environment, "")

		if execErr != nil {
			log.Error("probe.failed", "err", execErr, "saved_id", id)
		} else {
			log.Info("probe.ok", "saved_id", id, "verdict", string(run.Tally.Verdict()))
		}

		for _, r := range run.Results {
			switch {
			case r.Error != nil:
				log.Warn("probe.error",
					"name", r.Name,
					"url", r.URL,
					"kind", string(r.Error.Kind),
					"message", r.Error.Message,
				)
			case r.Deprecation.Deprecated:
				log.Info("probe.deprecated", "name", r.Name, "reason", r.Deprecation.Reason)
			case debug:
				log.Debug("probe.ok",
					"name", r.Name,
					"url", r.URL,
					"status", r.Response.StatusCode,
					"latency_ms", r.Response.LatencyMS,
					"truncated", r.Response.Truncated,
					"body_bytes", len(r.Response.Body),
				)
			}
		}

		ch <- probeRunDoneMsg{run: run, id: id, err: execErr}
	}()

	return ch, listenRunner(ch)
}
