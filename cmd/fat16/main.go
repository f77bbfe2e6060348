// Command fat16 lists, prints and extracts the files of FAT16 disk images.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aligator/fat16"
	"github.com/aligator/fat16/internal/config"
	"github.com/aligator/fat16/internal/logger"
)

// cfg is the configuration of the running command, loaded before every subcommand.
var cfg = config.DefaultConfig()

func main() {
	if err := createRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// createRootCommand creates the fat16 command with all subcommands.
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fat16",
		Short: "reads FAT16 disk images",
		Long: `fat16 reads the files of a FAT16 disk image without mounting it.
Damaged images are read as far as possible: files cut short by the
image or their cluster chain are returned partially.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		createLsCommand(),
		createCatCommand(),
		createExtractCommand(),
		createInfoCommand(),
	)
	return rootCmd
}

// loadConfig loads the configuration file, applies the flags on top and sets up logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	loaded, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := loaded.ApplyFlags(cmd.Flags()); err != nil {
		return err
	}

	if err := logger.Setup(loaded.LogLevel, cmd.ErrOrStderr()); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// openImage opens the image at path with the options of the current configuration.
func openImage(path string) (*fat16.Fs, error) {
	log := logger.Logger()
	log.Debugf("Opening image file: %s", path)

	fs, err := fat16.OpenImage(path, cfg.ReaderOptions()...)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	return fs, nil
}

// resolveFormat returns the format given by flag, or the configured one if the flag is empty.
func resolveFormat(flag string) (string, error) {
	format := flag
	if format == "" {
		format = cfg.Format
	}

	switch format {
	case "text", "json", "yaml":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported --format %q (supported: text, json, yaml)", format)
	}
}

// writeResult writes v as JSON or YAML, or calls text for the text format.
func writeResult(out io.Writer, format string, pretty bool, v interface{}, text func(w io.Writer) error) error {
	switch format {
	case "text":
		return text(out)

	case "json":
		var (
			b   []byte
			err error
		)
		if pretty {
			b, err = json.MarshalIndent(v, "", "  ")
		} else {
			b, err = json.Marshal(v)
		}
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil

	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, _ = fmt.Fprint(out, string(b))
		return nil

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
