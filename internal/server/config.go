package server

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the server configuration.
type Config struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	DataDir string `mapstructure:"data_dir"`
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.data_dir", "./data")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/netscout.db")

	// Module defaults
	v.SetDefault("modules.discovery.enabled", true)
	v.SetDefault("modules.discovery.batch_size", 25)
	v.SetDefault("modules.discovery.ping_timeout", "1500ms")
	v.SetDefault("modules.discovery.ping_count", 1)
	v.SetDefault("modules.discovery.dns_timeout", "2s")
	v.SetDefault("modules.discovery.scan_timeout", "5m")
	v.SetDefault("modules.discovery.arp_enabled", true)
	v.SetDefault("modules.discovery.include_arp_only", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("netscout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/netscout")
	}

	// Environment variable support: NS_SERVER_PORT=9090
	v.SetEnvPrefix("NS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine (defaults + env apply); anything
		// else is a real error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}
