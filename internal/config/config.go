package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"boardkit.dev/boardkit/internal/boards"
	"boardkit.dev/boardkit/internal/manifest"
	"boardkit.dev/boardkit/internal/output"
)

const (
	configFileName = ".boardkit"
	configFileType = "yaml"
	envPrefix      = "BOARDKIT"

	// Manifest flush modes
	FlushEnd  = "end"
	FlushEach = "each"

	defaultTokenEnv = "GITHUB_TOKEN"
)

// Config keys
const (
	KeyBackend           = "backend"
	KeyDebug             = "debug"
	KeyManifestBackend   = "manifest.backend"
	KeyManifestPath      = "manifest.path"
	KeyManifestFlush     = "manifest.flush"
	KeyLogFile           = "log.file"
	KeyLogMaxSize        = "log.max_size"
	KeyLogMaxBackups     = "log.max_backups"
	KeyLogMaxAge         = "log.max_age"
	KeyAzureOrganization = "azure.organization"
	KeyAzureProject      = "azure.project"
	KeyAzureCommand      = "azure.command"
	KeyAzureTimeout      = "azure.timeout"
	KeyGitHubOwner       = "github.owner"
	KeyGitHubRepo        = "github.repo"
	KeyGitHubHostname    = "github.hostname"
	KeyGitHubTokenEnv    = "github.token_env"
)

// Config is the effective configuration for a run
type Config struct {
	Backend  string         `mapstructure:"backend" yaml:"backend"`
	Debug    bool           `mapstructure:"debug" yaml:"debug"`
	Manifest ManifestConfig `mapstructure:"manifest" yaml:"manifest"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Azure    AzureConfig    `mapstructure:"azure" yaml:"azure"`
	GitHub   GitHubConfig   `mapstructure:"github" yaml:"github"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-" yaml:"-"`
}

// ManifestConfig selects where the manifest is kept
type ManifestConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	Path    string `mapstructure:"path" yaml:"path"`
	Flush   string `mapstructure:"flush" yaml:"flush"`
}

// LogConfig controls the rotating log file
type LogConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
}

// AzureConfig scopes the az backend
type AzureConfig struct {
	Organization string        `mapstructure:"organization" yaml:"organization"`
	Project      string        `mapstructure:"project" yaml:"project"`
	Command      string        `mapstructure:"command" yaml:"command"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// GitHubConfig scopes the GitHub Issues backend
type GitHubConfig struct {
	Owner    string `mapstructure:"owner" yaml:"owner"`
	Repo     string `mapstructure:"repo" yaml:"repo"`
	Hostname string `mapstructure:"hostname" yaml:"hostname"`
	TokenEnv string `mapstructure:"token_env" yaml:"token_env"`
}

// Token reads the GitHub token from the configured environment variable
func (g GitHubConfig) Token() string {
	return os.Getenv(g.TokenEnv)
}

// FlushEachRecord reports whether the manifest is saved after every record
func (c *Config) FlushEachRecord() bool {
	return c.Manifest.Flush == FlushEach
}

// flagKeys maps CLI flag names to config keys
var flagKeys = map[string]string{
	"backend":          KeyBackend,
	"debug":            KeyDebug,
	"manifest":         KeyManifestPath,
	"manifest-backend": KeyManifestBackend,
	"log-file":         KeyLogFile,
}

// New returns a viper instance with defaults and environment binding applied
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyBackend, boards.BackendAzure)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyManifestBackend, manifest.BackendYAML)
	v.SetDefault(KeyManifestPath, "")
	v.SetDefault(KeyManifestFlush, FlushEnd)
	v.SetDefault(KeyLogFile, output.DefaultLogFile)
	v.SetDefault(KeyLogMaxSize, output.DefaultLogMaxSize)
	v.SetDefault(KeyLogMaxBackups, output.DefaultLogMaxBackups)
	v.SetDefault(KeyLogMaxAge, output.DefaultLogMaxAge)
	v.SetDefault(KeyAzureOrganization, "")
	v.SetDefault(KeyAzureProject, "")
	v.SetDefault(KeyAzureCommand, "az")
	v.SetDefault(KeyAzureTimeout, 5*time.Minute)
	v.SetDefault(KeyGitHubOwner, "")
	v.SetDefault(KeyGitHubRepo, "")
	v.SetDefault(KeyGitHubHostname, "")
	v.SetDefault(KeyGitHubTokenEnv, defaultTokenEnv)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadOptions locates the configuration sources
type LoadOptions struct {
	// ConfigFile is an explicit file; it must exist when set
	ConfigFile string
	// Dir is searched for .boardkit.yaml when ConfigFile is empty
	Dir string
	// Flags are bound to their config keys; only flags the user set take effect
	Flags *pflag.FlagSet
}

// Load resolves the configuration. A missing .boardkit.yaml is not an error.
func Load(opts LoadOptions) (*Config, error) {
	v := New()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if flag := opts.Flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Manifest.Backend = strings.ToLower(strings.TrimSpace(cfg.Manifest.Backend))

	if cfg.Manifest.Path == "" {
		cfg.Manifest.Path = manifest.DefaultPath(cfg.Manifest.Backend)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values
func (c *Config) Validate() error {
	if err := boards.ValidateBackend(c.Backend); err != nil {
		return err
	}
	switch c.Manifest.Backend {
	case manifest.BackendYAML, manifest.BackendSQLite:
	default:
		return fmt.Errorf("invalid manifest.backend %q: must be %q or %q", c.Manifest.Backend, manifest.BackendYAML, manifest.BackendSQLite)
	}
	switch c.Manifest.Flush {
	case FlushEnd, FlushEach:
	default:
		return fmt.Errorf("invalid manifest.flush %q: must be %q or %q", c.Manifest.Flush, FlushEnd, FlushEach)
	}
	if c.Azure.Timeout < 0 {
		return fmt.Errorf("invalid azure.timeout %s: must not be negative", c.Azure.Timeout)
	}
	return nil
}
