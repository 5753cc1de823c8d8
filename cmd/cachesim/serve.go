package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/hierarchy"
	"github.com/sarchlab/cachesim/monitoring"
)

var serveFlags struct {
	port int
	open bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation HTTP API for the visualization front end",
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, err := hierarchy.MakeBuilder().Build()
		if err != nil {
			return err
		}

		port := serveFlags.port
		if env := os.Getenv("CACHESIM_PORT"); env != "" && port == 0 {
			port, err = strconv.Atoi(env)
			if err != nil {
				return fmt.Errorf("invalid CACHESIM_PORT: %w", err)
			}
		}

		server := monitoring.NewServer(sim)
		if port != 0 {
			server = server.WithPortNumber(port)
		}

		actualPort := server.StartServer()

		if serveFlags.open {
			url := fmt.Sprintf("http://localhost:%d/api/levels", actualPort)
			if err := browser.OpenURL(url); err != nil {
				fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
			}
		}

		select {}
	},
}

func init() {
	serveCmd.Flags().IntVar(&serveFlags.port,
		"port", 0, "port to listen on, 0 picks a random port")
	serveCmd.Flags().BoolVar(&serveFlags.open,
		"open", false, "open the served API in a browser")

	rootCmd.AddCommand(serveCmd)
}
