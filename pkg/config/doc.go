// Package config loads typed configuration structs from environment
// variables using caarlos0/env field tags, with optional .env file support
// via godotenv for local development.
package config
