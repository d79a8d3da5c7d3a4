// Package cli implements the dhcpdash command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dhcpdash/internal/config"
	"github.com/matzehuels/dhcpdash/pkg/buildinfo"
	"github.com/matzehuels/dhcpdash/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dhcpdash"

	// configFile is the settings file looked up in the config directory.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// LogLevelEnv names the environment variable holding the default log level.
const LogLevelEnv = "DHCPDASH_LOG_LEVEL"

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath overrides the default settings file when set.
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "dhcpdash previews DHCP option sets and server configuration",
		Long:          `dhcpdash serializes DHCP option forms into the wire format a DHCP server expects, decodes wire options back into editable forms and renders JSON configuration as a collapsible tree.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default: $XDG_CONFIG_HOME/dhcpdash/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level (overrides "+LogLevelEnv+")")

	root.AddCommand(c.treeCommand())
	root.AddCommand(c.optionsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Settings
// =============================================================================

// loadConfig reads the settings file named by --config, or the default
// file when it exists. Without either the built-in defaults apply.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	dir, err := configDir()
	if err != nil {
		return config.Default(), nil
	}
	cfg, err := config.Load(filepath.Join(dir, configFile))
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return config.Default(), nil
	}
	return cfg, err
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/dhcpdash/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// readInput reads a file argument, or stdin for "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return data, nil
}

// =============================================================================
// Exit Status
// =============================================================================

// ParseLogLevel parses a level name such as "debug" or "warn". An empty
// name means info.
func ParseLogLevel(name string) (log.Level, error) {
	if name == "" {
		return LogInfo, nil
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return LogInfo, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", LogLevelEnv)
	}
	return level, nil
}

// Exit statuses beyond 0 (success) and 1 (internal failure).
const (
	ExitInvalid     = 2   // bad flags, documents or option values
	ExitNotFound    = 3   // missing input or settings file
	ExitInterrupted = 130 // SIGINT, as shells report it
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.IsValidation(err):
		return ExitInvalid
	case errors.Is(err, errors.ErrCodeFileNotFound), errors.Is(err, errors.ErrCodeNotFound):
		return ExitNotFound
	}
	return 1
}
