package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List every format the registry knows about",
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	convCore, logger, err := buildCore()
	if err != nil {
		return err
	}
	defer logger.Sync()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "HANDLER\tMIME\tEXTENSION\tFROM\tTO\tLOSSLESS")
	for _, opt := range convCore.Registry().Options() {
		name := "?"
		if opt.Handler != nil {
			name = opt.Handler.Name()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\t%v\n",
			name, opt.Format.MIME, opt.Format.Extension, opt.Format.From, opt.Format.To, opt.Format.Lossless)
	}
	return nil
}
