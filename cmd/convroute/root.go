// Command convroute is a local CLI over the same ConversionCore the HTTP
// and Lambda entry points serve, for scripting conversions and inspecting
// the routing graph without standing up a server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"convroute/internal/application/core"
	"convroute/internal/config"
	"convroute/internal/di"
)

var rootCmd = &cobra.Command{
	Use:   "convroute",
	Short: "Route and execute file format conversions",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildCore boots a ConversionCore the same way cmd/api does, minus the
// HTTP-only dependencies (router, JWT validator, publisher).
func buildCore() (*core.ConversionCore, *zap.Logger, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	container, err := di.InitializeContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	return container.Core, container.Logger, nil
}
