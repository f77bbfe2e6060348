package main

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/aligator/fat16/internal/extract"
)

// extract command flags
var (
	extractExtensions []string
	extractFlatten    bool
	extractFormat     string
)

// createExtractCommand creates the extract subcommand
func createExtractCommand() *cobra.Command {
	extractCmd := &cobra.Command{
		Use:   "extract [flags] IMAGE_FILE OUTPUT_DIR",
		Short: "copies files of an image into a directory",
		Long: `Extract copies the files of the image into OUTPUT_DIR, either
recreating the directory tree or, with --flatten, writing every
file directly into OUTPUT_DIR. Files which can only be read partially
are written as far as possible and marked in the output.`,
		Args: cobra.ExactArgs(2),
		RunE: executeExtract,
	}

	extractCmd.Flags().StringSliceVar(&extractExtensions, "ext", nil,
		"Only extract files with these extensions, e.g. --ext .mp3,.wav")
	extractCmd.Flags().BoolVar(&extractFlatten, "flatten", false,
		"Write all files into OUTPUT_DIR, replacing / by _ in their names")
	extractCmd.Flags().StringVar(&extractFormat, "format", "",
		"Specify the output format (text, json, yaml), defaults to the configured format")

	return extractCmd
}

func executeExtract(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(extractFormat)
	if err != nil {
		return err
	}

	opts := extract.Options{
		Extensions: cfg.Extract.Extensions,
		Flatten:    cfg.Extract.Flatten,
	}
	if cmd.Flags().Changed("ext") {
		opts.Extensions = extractExtensions
	}
	if cmd.Flags().Changed("flatten") {
		opts.Flatten = extractFlatten
	}

	fs, err := openImage(args[0])
	if err != nil {
		return err
	}
	defer fs.Close()

	outputDir := args[1]
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Failed files are still part of results, so they are printed before the error is returned.
	results, extractErr := extract.Extract(fs, afero.NewBasePathFs(osFs, outputDir), opts)
	if results == nil && extractErr != nil {
		return extractErr
	}

	err = writeResult(cmd.OutOrStdout(), format, false, results, func(w io.Writer) error {
		extracted := 0
		for _, result := range results {
			if result.Failed() {
				_, _ = fmt.Fprintf(w, "%s FAILED: %s\n", result.Path, result.Error)
				continue
			}
			extracted++

			marker := ""
			if result.Partial {
				marker = fmt.Sprintf(" PARTIAL %d of %d bytes", result.Written, result.DeclaredSize)
			}
			_, _ = fmt.Fprintf(w, "%s -> %s%s\n", result.Path, result.Target, marker)
		}
		_, _ = fmt.Fprintf(w, "Extracted %d files to %s\n", extracted, outputDir)
		return nil
	})
	if err != nil {
		return err
	}

	return extractErr
}
