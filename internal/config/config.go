package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Debug    bool   `env:"DEBUG" envDefault:"false"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Storage selects the repository backing: "memory" or "sql".
	Storage string `env:"STORAGE" envDefault:"memory"`

	Database struct {
		Path string `env:"DB_PATH" envDefault:"./data/tasks.db"`
	}

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

func New() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	return &cfg, err
}
