package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/driveport/driveport/internal/config"
)

// newConfigureCmd creates the 'configure' command.
func newConfigureCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Set up the platform connection interactively",
		Long: `Interactive setup for the DrivePort platform connection.

The configuration is saved to ~/.config/driveport/config with owner-only
permissions since it holds the API key.

Use --force to overwrite an existing configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				var err error
				path, err = config.DefaultConfigPath()
				if err != nil {
					return err
				}
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					fmt.Printf("Configuration already exists at: %s\n", path)
					fmt.Println("Use --force to overwrite.")
					return nil
				}
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			fmt.Println("DrivePort Configuration Setup")
			fmt.Println("=============================")
			fmt.Println()

			reader := bufio.NewReader(os.Stdin)

			cfg.Platform.EndpointURL = promptRequired(reader, "Endpoint URL", cfg.Platform.EndpointURL)
			cfg.Platform.ProjectID = promptRequired(reader, "Project ID", cfg.Platform.ProjectID)
			cfg.Platform.APIKey = promptSecret("API key")
			cfg.Platform.DatabaseID = promptDefault(reader, "Database ID", cfg.Platform.DatabaseID)
			cfg.Platform.FilesCollectionID = promptDefault(reader, "Files collection ID", cfg.Platform.FilesCollectionID)
			cfg.Platform.FoldersCollectionID = promptDefault(reader, "Folders collection ID", cfg.Platform.FoldersCollectionID)
			cfg.Platform.BucketID = promptDefault(reader, "Storage bucket ID", cfg.Platform.BucketID)

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}

			fmt.Printf("\nConfiguration saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	return cmd
}

// promptRequired reads a non-empty line, re-asking until one is given.
func promptRequired(reader *bufio.Reader, label, current string) string {
	for {
		if current != "" {
			fmt.Printf("%s [%s]: ", label, current)
		} else {
			fmt.Printf("%s (required): ", label)
		}
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
		if current != "" {
			return current
		}
	}
}

// promptDefault reads a line, keeping the default when empty.
func promptDefault(reader *bufio.Reader, label, def string) string {
	fmt.Printf("%s [%s]: ", label, def)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

// promptSecret reads without echo when stdin is a terminal, falling back to
// a plain read for piped input.
func promptSecret(label string) string {
	for {
		fmt.Printf("%s (required, hidden): ", label)
		fd := int(os.Stdin.Fd())
		if term.IsTerminal(fd) {
			secret, err := term.ReadPassword(fd)
			fmt.Println()
			if err == nil && len(secret) > 0 {
				return string(secret)
			}
			continue
		}
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
}
