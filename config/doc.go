// Package config loads service configuration with Viper.
//
// Values come from a YAML file, then from a .env file (loaded into the
// process environment with godotenv), then from environment variables. Every
// mapstructure key of the target struct is bound to an upper-cased,
// underscore-separated variable, so soniox.api_key is read from
// SONIOX_API_KEY.
//
// # Usage
//
//	var cfg MyConfig
//	err := config.LoadConfig("soniox-transcribe", &cfg)
package config
