package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"convroute/internal/application/core"
	"convroute/internal/domain/handler"
)

var (
	convertFrom    string
	convertTo      string
	convertOutDir  string
	convertHandler string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a file from one format to another",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "source MIME type (guessed from the file extension if omitted)")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "target MIME type (required)")
	convertCmd.Flags().StringVar(&convertOutDir, "out", ".", "directory to write output files into")
	convertCmd.Flags().StringVar(&convertHandler, "handler", "", "require the final hop to use this handler, when it declares the target MIME as an output")
	convertCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	convCore, logger, err := buildCore()
	if err != nil {
		return fmt.Errorf("initializing conversion core: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fromMIME := convertFrom
	if fromMIME == "" {
		fromMIME = mimeFromExtension(convCore.Registry(), inputPath)
		if fromMIME == "" {
			return fmt.Errorf("could not infer source MIME type from %q, pass --from", inputPath)
		}
	}

	var preferred handler.Handler
	if convertHandler != "" {
		h, ok := convCore.Registry().HandlerByName(convertHandler)
		if !ok {
			return fmt.Errorf("unknown handler %q", convertHandler)
		}
		preferred = h
	}

	from := core.ResolveSource(convCore.Registry(), fromMIME)
	to, simpleMode := core.ResolveTarget(convCore.Registry(), convertTo, preferred)

	result, err := convCore.Convert(ctx, []handler.File{{Name: filepath.Base(inputPath), Bytes: data}}, from, to, simpleMode)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.MkdirAll(convertOutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, f := range result.Files {
		outPath := filepath.Join(convertOutDir, f.Name)
		if err := os.WriteFile(outPath, f.Bytes, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Println(outPath)
	}

	fmt.Fprintf(os.Stderr, "path: ")
	for i, node := range result.Path {
		if i > 0 {
			fmt.Fprint(os.Stderr, " -> ")
		}
		fmt.Fprint(os.Stderr, node.Format.MIME)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

func mimeFromExtension(reg interface {
	ByExtension(string) []handler.Option
}, path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	opts := reg.ByExtension(ext[1:])
	if len(opts) == 0 {
		return ""
	}
	return opts[0].Format.MIME
}
