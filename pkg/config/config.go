package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"northcheck/pkg/checker"
)

// EnvPrefix prefixes every environment variable read through viper.
const EnvPrefix = "NORTHCHECK"

// Config contains all configuration for northcheck.
type Config struct {
	LinkEndpoint string `mapstructure:"link_endpoint"`
	FileEndpoint string `mapstructure:"file_endpoint"`
	LogLevel     string `mapstructure:"log_level"`
	Agent        Agent  `mapstructure:"agent"`
}

// Agent configures the Teneo agent mode.
type Agent struct {
	Name               string `mapstructure:"name"`
	Description        string `mapstructure:"description"`
	HealthPort         int    `mapstructure:"health_port"`
	RateLimitPerMinute int    `mapstructure:"rate_limit_per_minute"`
	PrivateKey         string `mapstructure:"private_key"`
	NFTTokenID         string `mapstructure:"nft_token_id"`
	OwnerAddress       string `mapstructure:"owner_address"`
}

// Endpoints returns the configured service URLs.
func (c *Config) Endpoints() checker.Endpoints {
	return checker.Endpoints{Link: c.LinkEndpoint, File: c.FileEndpoint}
}

// LoadDotEnv loads .env files if present. Missing files are ignored.
func LoadDotEnv() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

// New returns a viper instance with defaults and environment bindings.
// configFile may be empty, in which case northcheck.yaml is looked up in
// the user config dir and the working directory.
func New(configFile string) *viper.Viper {
	v := viper.New()
	v.SetDefault("link_endpoint", checker.DefaultLinkEndpoint)
	v.SetDefault("file_endpoint", checker.DefaultFileEndpoint)
	v.SetDefault("log_level", "warn")
	v.SetDefault("agent.name", "NorthCheck Reputation Agent")
	v.SetDefault("agent.description", "Checks links and file hashes against public reputation services.")
	v.SetDefault("agent.health_port", 8080)
	v.SetDefault("agent.rate_limit_per_minute", 0)
	v.SetDefault("agent.private_key", "")
	v.SetDefault("agent.nft_token_id", "")
	v.SetDefault("agent.owner_address", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("log_level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL")
	// the agent identity keeps the names the Teneo tooling documents
	_ = v.BindEnv("agent.private_key", EnvPrefix+"_AGENT_PRIVATE_KEY", "PRIVATE_KEY")
	_ = v.BindEnv("agent.nft_token_id", EnvPrefix+"_AGENT_NFT_TOKEN_ID", "NFT_TOKEN_ID")
	_ = v.BindEnv("agent.owner_address", EnvPrefix+"_AGENT_OWNER_ADDRESS", "OWNER_ADDRESS")
	_ = v.BindEnv("agent.rate_limit_per_minute", EnvPrefix+"_AGENT_RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_PER_MINUTE")
	_ = v.BindEnv("agent.health_port", EnvPrefix+"_AGENT_HEALTH_PORT", "HEALTH_PORT")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("northcheck")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "northcheck"))
		}
		v.AddConfigPath(".")
	}
	return v
}

// Load reads the config file, if any, and unmarshals the result. A missing
// default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Annotate(err, "failed to read config file")
		}
		log.Debug("no config file found, using defaults and environment")
	} else {
		log.Debugf("using config file %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Annotate(err, "failed to unmarshal config")
	}
	if cfg.LinkEndpoint == "" {
		cfg.LinkEndpoint = checker.DefaultLinkEndpoint
	}
	if cfg.FileEndpoint == "" {
		cfg.FileEndpoint = checker.DefaultFileEndpoint
	}
	return &cfg, nil
}

// Watch re-reads the configuration file on change and passes the new
// Config to handler. It is a no-op when no config file was loaded.
func Watch(v *viper.Viper, handler func(*Config, fsnotify.Event)) bool {
	if v.ConfigFileUsed() == "" {
		return false
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			log.Errorf("config reload from %s failed: %v", e.Name, err)
			return
		}
		handler(&cfg, e)
	})
	v.WatchConfig()
	return true
}

// ConfigureLogging sets the global logrus level and format. verbose wins
// over the configured level.
func ConfigureLogging(level string, verbose bool, timestamps bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: !timestamps,
		FullTimestamp:    timestamps,
	})
	if verbose {
		log.SetLevel(log.DebugLevel)
		return
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("unknown log level %q, using warn", level)
		lvl = log.WarnLevel
	}
	log.SetLevel(lvl)
}
