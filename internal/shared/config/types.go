package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// GitHubConfig holds the OAuth application credentials and provider endpoints.
// TokenURL and APIBaseURL are overridable so tests and GitHub Enterprise
// installs can point the broker elsewhere.
type GitHubConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
	AuthorizeURL string `mapstructure:"authorize_url"`
	TokenURL     string `mapstructure:"token_url"`
	APIBaseURL   string `mapstructure:"api_base_url"`
	Scope        string `mapstructure:"scope"`
}

// OAuthStateConfig bounds the lifetime of CSRF state records.
type OAuthStateConfig struct {
	TTLSeconds      int `mapstructure:"ttl_seconds"`
	PurgeIntervalMS int `mapstructure:"purge_interval_ms"`
}

func (o *OAuthStateConfig) TTL() time.Duration {
	return time.Duration(o.TTLSeconds) * time.Second
}

func (o *OAuthStateConfig) PurgeInterval() time.Duration {
	return time.Duration(o.PurgeIntervalMS) * time.Millisecond
}

// SecurityConfig carries the at-rest token encryption key (base64). When
// empty the key store is consulted, and failing that the vault runs in
// pass-through mode.
type SecurityConfig struct {
	TokenEncryptionKey string `mapstructure:"token_encryption_key"`
}

type WorkspaceConfig struct {
	Root string `mapstructure:"root"`
}

func (w *WorkspaceConfig) ProjectDir(projectID uint) string {
	return fmt.Sprintf("%s/projects/%d", w.Root, projectID)
}
