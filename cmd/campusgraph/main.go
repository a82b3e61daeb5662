// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command campusgraph runs the academic-records graph platform.
//
// Two subcommands cover both halves of the system:
//
//	campusgraph serve   start the report gateway HTTP server
//	campusgraph sync    run one relational-to-graph reconciliation pass
//
// All configuration comes from environment variables; see pkg/config
// for the full list and defaults.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CampusGraph/pkg/config"
	"github.com/AleutianAI/CampusGraph/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "campusgraph",
	Short: "Academic records graph sync and federated reporting",
	Long: "CampusGraph keeps a Neo4j graph of academic records in sync with the\n" +
		"relational source of truth and serves federated attendance reports over it.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

// newLogger builds the process logger from the gateway config.
func newLogger(cfg config.Config) *logging.Logger {
	return logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Gateway.LogLevel),
		Service: "campusgraph",
		JSON:    true,
		Writer:  os.Stdout,
	})
}
