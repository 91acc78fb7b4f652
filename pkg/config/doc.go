// Package config centralizes environment-driven configuration for the
// fitness platform services.
//
// Each config struct carries cleanenv `env` tags and converts itself into the
// concrete config type of the package it feeds (database, notification,
// identity). Mains compose the structs they need and load them with
// cleanenv.ReadEnv.
package config
