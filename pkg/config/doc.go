// Package config loads typed application configuration from environment
// variables, with optional .env file support.
//
// It wraps github.com/caarlos0/env/v11 for struct parsing and
// github.com/joho/godotenv for .env files. Each configuration type is parsed
// once per process and cached; repeated Load calls for the same type are
// cheap.
//
// # Usage
//
// Describe configuration as a struct with env tags:
//
//	type FeedConfig struct {
//		BufferSize      int `env:"FEED_BUFFER_SIZE" envDefault:"64"`
//		MaxGroupStreams int `env:"FEED_MAX_GROUP_STREAMS" envDefault:"128"`
//	}
//
// Then populate it:
//
//	var cfg FeedConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// The default .env file in the working directory is loaded automatically on
// the first Load; additional files can be loaded explicitly with LoadEnv.
// Tests that mutate the environment should call ResetCache between cases.
package config
