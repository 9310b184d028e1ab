package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/infra/httpclient"
	"github.com/aalvaropc/ordercompat/internal/infra/httprunner"
	"github.com/aalvaropc/ordercompat/internal/infra/logger"
	"github.com/aalvaropc/ordercompat/internal/infra/runstore"
	"github.com/aalvaropc/ordercompat/internal/infra/workspacefinder"
	"github.com/aalvaropc/ordercompat/internal/infra/yamlenv"
	"github.com/aalvaropc/ordercompat/internal/infra/yamlprobes"
	"github.com/aalvaropc/ordercompat/internal/ports"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	suites ports.ProbeSuiteLoader

	envs       ports.EnvironmentLoader
	envCatalog ports.EnvironmentCatalog

	runner ports.ProbeRunner
	store  ports.ReportStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	suiteLoader := yamlprobes.NewLoader(
		yamlprobes.WithProbesDir(cfg.Paths.ProbesDir),
	)

	envLoader := yamlenv.NewLoader(
		root,
		yamlenv.WithEnvDir(cfg.Paths.EnvironmentsDir),
	)

	client := httpclient.New(httpclient.DefaultConfig())
	runner := httprunner.New(client)

	store := runstore.NewJSONStore(root, cfg, runstore.WithIndex(true))

	return &workspaceCtx{
		root:       root,
		cfg:        cfg,
		suites:     suiteLoader,
		envs:       envLoader,
		envCatalog: envLoader,
		runner:     runner,
		store:      store,
	}, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `ordercompat init`): %w", wd, err)
	}
	return root, nil
}

func resolveSuitePath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("suite is required (use --suite or -s)")
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	probesDir := filepath.Join(ws.root, ws.cfg.Paths.ProbesDir)

	if hasYAMLExt(in) {
		p := filepath.Join(probesDir, in)
		if fileExists(p) {
			return p, nil
		}
	}

	p1 := filepath.Join(probesDir, in+".yaml")
	if fileExists(p1) {
		return p1, nil
	}
	p2 := filepath.Join(probesDir, in+".yml")
	if fileExists(p2) {
		return p2, nil
	}

	// Last resort: match the suite "name" field.
	refs, err := ws.suites.ListSuites(ws.root)
	if err == nil {
		for _, r := range refs {
			if strings.EqualFold(r.Name, in) {
				return r.Path, nil
			}
		}
	}

	return "", fmt.Errorf("suite %q not found in %q", in, probesDir)
}

func resolveEnvironmentArg(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return ws.cfg.Defaults.Environment, nil
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	if hasYAMLExt(in) {
		envDir := filepath.Join(ws.root, ws.cfg.Paths.EnvironmentsDir)
		return filepath.Join(envDir, in), nil
	}

	// A bare name ("dev") is resolved by the loader.
	return in, nil
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// openLogger sets up the file logger under root, or under the workspace
// enclosing the working directory when root is empty. Outside a workspace
// logs are only kept when a console mirror is requested. The returned func
// closes the logger.
func openLogger(cmd *cobra.Command, root string, console io.Writer) func() {
	debug, _ := cmd.Flags().GetBool("debug")

	logRoot := root
	if logRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		wd, _ = filepath.Abs(wd)

		if found, ferr := workspacefinder.NewFinder().FindRoot(wd); ferr == nil && found != "" {
			logRoot = found
		} else if console != nil {
			logRoot = wd
		} else {
			return func() {}
		}
	}

	cleanup, err := logger.Setup(logger.Config{
		Root:    logRoot,
		Debug:   debug,
		Console: console,
	})
	if err != nil || cleanup == nil {
		return func() {}
	}
	return func() { _ = cleanup() }
}

// readInput reads the named file, or stdin when the argument is absent or "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return nil, &domain.OpError{
			Op:   "cli.read_input",
			Kind: domain.KindNotFound,
			Path: args[0],
			Err:  err,
		}
	}
	return b, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
