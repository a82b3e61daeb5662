// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads CampusGraph configuration from the environment.
//
// Every setting has a default that matches the local compose stack, so a
// zero-configuration `campusgraph serve` works against localhost.
package config

import (
	"fmt"
	"os"
)

// Postgres holds connection settings for the relational source of truth.
type Postgres struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

// DSN renders the settings as a pgx-compatible connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", p.User, p.Password, p.Host, p.Port, p.Database)
}

// Neo4j holds connection settings for the graph store.
type Neo4j struct {
	URI      string
	User     string
	Password string
	Database string
}

// Elastic holds connection settings for the search index.
type Elastic struct {
	URL      string
	User     string
	Password string
	Index    string
}

// Redis holds connection settings for the profile cache.
type Redis struct {
	Addr string
}

// Gateway holds HTTP boundary settings.
type Gateway struct {
	Port     string
	User     string
	Password string
	LogLevel string
}

// Config aggregates all component configuration.
type Config struct {
	Postgres Postgres
	Neo4j    Neo4j
	Elastic  Elastic
	Redis    Redis
	Gateway  Gateway
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() Config {
	return Config{
		Postgres: Postgres{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5430"),
			Database: getEnv("POSTGRES_DB", "postgres_db"),
			User:     getEnv("POSTGRES_USER", "postgres_user"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres_password"),
		},
		Neo4j: Neo4j{
			URI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", "strongpassword"),
			Database: getEnv("NEO4J_DATABASE", ""),
		},
		Elastic: Elastic{
			URL:      getEnv("ES_URL", "http://localhost:9200"),
			User:     getEnv("ES_USER", "elastic"),
			Password: getEnv("ES_PASS", "secret"),
			Index:    getEnv("ES_INDEX", "lecture_materials"),
		},
		Redis: Redis{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Gateway: Gateway{
			Port:     getEnv("GATEWAY_PORT", "5000"),
			User:     getEnv("GATEWAY_USER", "user"),
			Password: getEnv("GATEWAY_PASSWORD", "user"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// getEnv returns the environment value for key, or def when unset or empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
