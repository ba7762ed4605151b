package main

import (
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/config"
)

// CLI defines the command-line flags. Flags override the config file and
// its GC_* environment overrides.
type CLI struct {
	Config    string `help:"Path to a YAML config file." type:"path" env:"GC_CONFIG"`
	RedisAddr string `help:"Address of the Redis index." name:"redis-addr" placeholder:"HOST:PORT"`
	RedisDB   int    `help:"Redis database of the index." name:"redis-db" default:"-1"`
	History   string `help:"Path of the local history database." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." name:"log-level"`
	NoColor   bool   `help:"Disable colored output." name:"no-color"`
	Operator  string `help:"Operator name scoping shared postgres history." env:"USER" default:"anonymous"`
}

// apply copies the flags that were set onto cfg.
func (c *CLI) apply(cfg *config.Config) {
	if c.RedisAddr != "" {
		cfg.Redis.Addr = c.RedisAddr
	}
	if c.RedisDB >= 0 {
		cfg.Redis.DB = c.RedisDB
	}
	if c.History != "" {
		cfg.History.Path = c.History
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
}
