package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/ports"
)

// Finder locates a workspace root by searching for ordercompat.yaml upward.
type Finder struct {
	ConfigFile string // defaults to ordercompat.yaml
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: ConfigFile}
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

func (f *Finder) FindRoot(startDir string) (string, error) {
	if strings.TrimSpace(startDir) == "" {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	// A file path (e.g. a probe suite) starts the search at its directory.
	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for cur := filepath.Clean(abs); ; {
		if _, err := os.Stat(filepath.Join(cur, f.ConfigFile)); err == nil {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{
				Op:   "workspacefinder.findroot",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}

// Workspace is a located root together with its effective configuration.
type Workspace struct {
	Root   string
	Config domain.Config
}

// Open finds the workspace containing startDir and loads its config.
func (f *Finder) Open(startDir string) (Workspace, error) {
	root, err := f.FindRoot(startDir)
	if err != nil {
		return Workspace{}, err
	}
	cfg, err := LoadConfig(root)
	if err != nil {
		return Workspace{}, err
	}
	return Workspace{Root: root, Config: cfg}, nil
}
