// Package cli provides the command-line interface for DrivePort.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/driveport/driveport/internal/config"
	"github.com/driveport/driveport/internal/logging"
	"github.com/driveport/driveport/internal/version"
)

var (
	// Global flags
	cfgFile     string
	apiKeyFlag  string
	endpointURL string
	verbose     bool

	// Global logger
	logger *logging.Logger

	// Root context, cancelled on SIGINT/SIGTERM
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "driveport",
		Short: "DrivePort - upload, organize, and search cloud drive files",
		Long: `DrivePort ` + version.Version + ` - Built: ` + version.BuildTime + `
Client for drive-style cloud storage: concurrent uploads with folder
structure, typo-tolerant search, and file listing.

Run "driveport configure" first to set up the platform connection.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefaultLogger()
			if verbose {
				logging.SetGlobalLevel(-1)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "API key (overrides config)")
	rootCmd.PersistentFlags().StringVar(&endpointURL, "endpoint", "", "Platform endpoint URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	rootCmd.AddCommand(newConfigureCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newLsCmd())

	return rootCmd
}

// Execute runs the CLI with signal-driven cancellation. Ctrl-C cancels every
// in-flight transfer through the root context.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())
	defer cancelFunc()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		for sig := range sigChan {
			fmt.Fprintf(os.Stderr, "\nReceived %v, cancelling...\n", sig)
			cancelFunc()
		}
	}()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(rootContext); err != nil {
		return err
	}
	return nil
}

// loadConfig reads the config file and layers CLI flag overrides on top.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if apiKeyFlag != "" {
		cfg.Platform.APIKey = apiKeyFlag
	}
	if endpointURL != "" {
		cfg.Platform.EndpointURL = endpointURL
	}
	return cfg, nil
}
