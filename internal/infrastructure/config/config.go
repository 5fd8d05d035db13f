package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/devvault/cockpit/internal/shared/config"
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	GitHub     sharedConfig.GitHubConfig     `mapstructure:"github"`
	OAuthState sharedConfig.OAuthStateConfig `mapstructure:"oauth_state"`
	Security   sharedConfig.SecurityConfig   `mapstructure:"security"`
	Workspace  sharedConfig.WorkspaceConfig  `mapstructure:"workspace"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("COCKPIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; env vars and defaults carry a full setup
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8085)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "cockpit_dev")
	viper.SetDefault("database.path", "cockpit.db")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// GitHub OAuth defaults (client id/secret must be configured)
	viper.SetDefault("github.client_id", "")
	viper.SetDefault("github.client_secret", "")
	viper.SetDefault("github.redirect_url", "http://localhost:8085/api/git/github/callback")
	viper.SetDefault("github.authorize_url", "https://github.com/login/oauth/authorize")
	viper.SetDefault("github.token_url", "https://github.com/login/oauth/access_token")
	viper.SetDefault("github.api_base_url", "https://api.github.com")
	viper.SetDefault("github.scope", "repo")

	// OAuth state lifecycle defaults
	viper.SetDefault("oauth_state.ttl_seconds", 600)
	viper.SetDefault("oauth_state.purge_interval_ms", 300000)

	// Security defaults (empty key = vault disabled unless the key store has one)
	viper.SetDefault("security.token_encryption_key", "")

	// Workspace defaults
	viper.SetDefault("workspace.root", "./workspace")
}
