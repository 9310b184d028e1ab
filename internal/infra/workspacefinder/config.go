package workspacefinder

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"gopkg.in/yaml.v3"
)

// ConfigFile marks a workspace root.
const ConfigFile = "ordercompat.yaml"

// LoadConfig loads ordercompat.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	oc := y.OrderCompat
	if oc.Masking.Enabled != nil {
		cfg.Masking.Enabled = *oc.Masking.Enabled
	}
	setIf(&cfg.Defaults.Environment, oc.Defaults.Env)
	setIf(&cfg.Paths.FixturesFile, oc.Paths.FixturesFile)
	setIf(&cfg.Paths.ProbesDir, oc.Paths.ProbesDir)
	setIf(&cfg.Paths.EnvironmentsDir, oc.Paths.EnvironmentsDir)
	setIf(&cfg.Paths.ReportsDir, oc.Paths.ReportsDir)
	setIf(&cfg.Server.Addr, oc.Server.Addr)
	if oc.Server.V1Deprecated != nil {
		cfg.Server.V1Deprecated = *oc.Server.V1Deprecated
	}

	return cfg, nil
}

func setIf(dst *string, v string) {
	if s := strings.TrimSpace(v); s != "" {
		*dst = s
	}
}

type yamlConfig struct {
	OrderCompat struct {
		Masking struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"masking"`

		Defaults struct {
			Env string `yaml:"env"`
		} `yaml:"defaults"`

		Paths struct {
			FixturesFile    string `yaml:"fixtures_file"`
			ProbesDir       string `yaml:"probes_dir"`
			EnvironmentsDir string `yaml:"environments_dir"`
			ReportsDir      string `yaml:"reports_dir"`
		} `yaml:"paths"`

		Server struct {
			Addr         string `yaml:"addr"`
			V1Deprecated *bool  `yaml:"v1_deprecated"`
		} `yaml:"server"`
	} `yaml:"ordercompat"`
}
