package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aligator/fat16"
)

// ls command flags
var (
	lsFormat string
	lsPretty bool
)

// createLsCommand creates the ls subcommand
func createLsCommand() *cobra.Command {
	lsCmd := &cobra.Command{
		Use:   "ls [flags] IMAGE_FILE",
		Short: "lists all files and directories of an image",
		Long: `Ls walks the whole directory tree of the image, depth first in
on-disk order, and prints every file with its size and every
directory with a trailing slash.`,
		Args: cobra.ExactArgs(1),
		RunE: executeLs,
	}

	lsCmd.Flags().StringVar(&lsFormat, "format", "",
		"Specify the output format (text, json, yaml), defaults to the configured format")
	lsCmd.Flags().BoolVar(&lsPretty, "pretty", false,
		"Pretty-print JSON output (only for --format json)")

	return lsCmd
}

func executeLs(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(lsFormat)
	if err != nil {
		return err
	}

	fs, err := openImage(args[0])
	if err != nil {
		return err
	}
	defer fs.Close()

	out := cmd.OutOrStdout()

	// The text format streams, so a damaged directory still shows everything before it.
	if format == "text" {
		return fs.Walk(func(entry fat16.PathEntry) error {
			printPathEntry(out, entry)
			return nil
		})
	}

	entries, err := fs.WalkAll()
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []fat16.PathEntry{}
	}

	return writeResult(out, format, lsPretty, entries, nil)
}

func printPathEntry(w io.Writer, entry fat16.PathEntry) {
	if entry.IsDir {
		_, _ = fmt.Fprintf(w, "[DIR]  %s\n", entry.Path)
		return
	}

	sizeMB := float64(entry.Size) / (1024 * 1024)
	_, _ = fmt.Fprintf(w, "       %-40s %10d bytes (%.1f MB)\n", entry.Path, entry.Size, sizeMB)
}
