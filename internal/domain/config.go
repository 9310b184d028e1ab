package domain

// Config represents the ordercompat workspace configuration (ordercompat.yaml).
type Config struct {
	Masking  MaskingConfig
	Defaults DefaultsConfig
	Paths    PathsConfig
	Server   ServerConfig
}

type MaskingConfig struct {
	Enabled bool
}

type DefaultsConfig struct {
	Environment string
}

type PathsConfig struct {
	FixturesFile    string
	ProbesDir       string
	EnvironmentsDir string
	ReportsDir      string
}

// ServerConfig drives the mock orders server.
type ServerConfig struct {
	Addr string
	// V1Deprecated makes /api/v1/orders answer 410 for every user.
	V1Deprecated bool
}

// DefaultConfig provides sane defaults if ordercompat.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Masking: MaskingConfig{Enabled: true},
		Defaults: DefaultsConfig{
			Environment: "dev",
		},
		Paths: PathsConfig{
			FixturesFile:    "fixtures/orders.yaml",
			ProbesDir:       "probes",
			EnvironmentsDir: "env",
			ReportsDir:      "reports",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:5005",
		},
	}
}

// WorkspaceSpec describes where a workspace should be scaffolded.
type WorkspaceSpec struct {
	Root string
}
