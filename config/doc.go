// Package config loads typeioc configuration with Viper.
//
// Values come from a YAML file (searched in standard locations unless given
// explicitly), an optional .env file loaded with godotenv, and environment
// variables. Environment variables use the TYPEIOC_ prefix with
// underscore-separated paths (e.g. TYPEIOC_CONTAINER_DEFAULT_SCOPE).
//
// # Usage
//
//	var cfg di.Config
//	err := config.LoadConfig("typeioc", &cfg, config.WithDefaults(di.ConfigDefaults()))
package config
