package config

import (
	"fmt"
	"os"

	"github.com/ohjain/ohjain/types"
	"gopkg.in/yaml.v3"
)

// Config is the main configuration, loaded from YAML.
type Config struct {
	Version      string     `yaml:"version"`
	Region       string     `yaml:"region"`
	InstanceType string     `yaml:"instance_type,omitempty"`
	Tags         types.Tags `yaml:"tags,omitempty"`
	JournalDir   string     `yaml:"journal_dir,omitempty"`
	Guard        Guard      `yaml:"guard,omitempty"`
	Daemon       Daemon     `yaml:"daemon,omitempty"`
}

// Guard configures the destructive-action gate.
type Guard struct {
	Enabled       bool     `yaml:"enabled"`
	PolicyPath    string   `yaml:"policy_path,omitempty"`
	ProtectedTags []string `yaml:"protected_tags,omitempty"`
}

// Daemon configures serve mode.
type Daemon struct {
	ListenAddr  string `yaml:"listen_addr,omitempty"`
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Version:      "1",
		Region:       types.DefaultRegion,
		InstanceType: types.DefaultInstanceType,
		Tags:         types.DefaultTags(),
		JournalDir:   defaultJournalDir(),
		Guard: Guard{
			Enabled:       true,
			ProtectedTags: []string{"ohjain:blessed"},
		},
		Daemon: Daemon{
			ListenAddr:  ":8080",
			MetricsAddr: ":9090",
		},
	}
}

// LoadConfig loads configuration from file, filling absent fields with
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate ensures config has required fields.
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	return nil
}

// Credentials reads the AWS credential pair from the environment. The
// values are passed through opaque; ohjain never interprets them.
func Credentials() (accessKey, secretKey string) {
	return os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
}

func defaultJournalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ohjain"
	}
	return home + "/.ohjain"
}
