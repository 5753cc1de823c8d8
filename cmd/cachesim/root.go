package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cachesim",
	Short: "cachesim simulates memory accesses against a cache hierarchy.",
	Long: `cachesim simulates memory accesses against a configurable ` +
		`multi-level cache hierarchy. It can decode addresses into their ` +
		`tag/index/offset fields, run workloads and report hit rates, and ` +
		`serve the HTTP API used by the visualization front end.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	// A .env file can set defaults such as CACHESIM_PORT; missing files are
	// fine.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
