// Package config loads the process-wide configuration. The resulting Config
// is constructed once at startup and passed into every collaborator; no
// package below cmd reads viper or the environment directly.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Version is the platform release every module manifest must target.
const Version = "0.5.0"

type Config struct {
	Listen string `mapstructure:"listen"`
	Debug  bool   `mapstructure:"debug"`

	Database struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Pterodactyl struct {
		Domain    string `mapstructure:"domain"`
		ClientKey string `mapstructure:"client_key"`
	} `mapstructure:"pterodactyl"`

	Relay struct {
		SessionTimeout time.Duration `mapstructure:"session_timeout"`
		CommandWait    time.Duration `mapstructure:"command_wait"`
	} `mapstructure:"relay"`

	HTTP struct {
		FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"http"`
}

// Load reads prism.toml (or an explicit path) plus PRISM_* environment
// overrides. A missing config file is fine as long as the panel settings
// arrive via the environment.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("listen", "127.0.0.1:25600")
	v.SetDefault("debug", false)
	v.SetDefault("database.dsn", "file:prism.db")
	v.SetDefault("relay.session_timeout", 10*time.Second)
	v.SetDefault("relay.command_wait", 5*time.Second)
	v.SetDefault("http.fetch_timeout", 15*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetConfigName("prism")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("prism")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return c, c.validate()
}

func (c Config) validate() error {
	if c.Pterodactyl.Domain == "" {
		return fmt.Errorf("pterodactyl.domain is required")
	}
	if c.Pterodactyl.ClientKey == "" {
		return fmt.Errorf("pterodactyl.client_key is required")
	}
	return nil
}
