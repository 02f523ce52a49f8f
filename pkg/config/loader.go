package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load populates the provided configuration struct from environment
// variables based on `env` field tags. A .env file in the working directory
// is loaded once per process before the first parse; a missing file is not
// an error.
//
// Example:
//
//	type MongoConfig struct {
//		URL string `env:"MONGODB_URL,required"`
//	}
//
//	var cfg MongoConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})

	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Use it for configuration the application cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
