package main

import (
	"github.com/spf13/cobra"
)

// createCatCommand creates the cat subcommand
func createCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat IMAGE_FILE PATH",
		Short: "prints the content of a file of an image",
		Long: `Cat writes the content of the file at PATH to the standard output.
PATH is relative to the root directory and matched case-insensitively.`,
		Args: cobra.ExactArgs(2),
		RunE: executeCat,
	}
}

func executeCat(cmd *cobra.Command, args []string) error {
	fs, err := openImage(args[0])
	if err != nil {
		return err
	}
	defer fs.Close()

	data, err := fs.ReadPath(args[1])
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
