package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cacheMu sync.Mutex
	cache   = make(map[string]any)

	defaultEnvOnce sync.Once
)

// Load populates v from the process environment. The default .env file, if
// present, is loaded into the environment first (once per process). Each
// config type is parsed at most once; later calls for the same type are
// served from cache.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	defaultEnvOnce.Do(func() {
		// A missing default .env file is not an error.
		_ = godotenv.Load()
	})

	key := typeName[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	// Cache a copy so callers mutating *v don't poison later loads.
	cache[key] = *v
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
// Panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: failed to load required configuration: %v", err))
	}
}

// LoadEnv loads the named .env files into the process environment. Unlike
// the implicit default load, a missing named file is an error.
func LoadEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv is LoadEnv that panics on failure.
func MustLoadEnv(filenames ...string) {
	if err := LoadEnv(filenames...); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// ResetCache drops every cached config so the next Load re-parses the
// environment. Intended for tests that mutate environment variables.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = make(map[string]any)
}

func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t.String()
}
