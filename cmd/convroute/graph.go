package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Dump the current routing graph as JSON",
	RunE:  runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	convCore, logger, err := buildCore()
	if err != nil {
		return err
	}
	defer logger.Sync()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(convCore.GraphData()); err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	return nil
}
