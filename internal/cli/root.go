// Package cli implements the bowdoc command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/bow/internal/paths"
	"github.com/mesh-intelligence/bow/pkg/doctree"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	format    string
	logLevel  string
}

var flags rootFlags

// cfg and logger are set by the root command before any subcommand runs.
var (
	cfg    *viper.Viper
	logger *log.Logger
)

// NewRootCmd creates the top-level "bowdoc" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bowdoc",
		Short: "Edit YAML and JSON documents without copying what you do not touch",
		Long: `bowdoc reads a YAML or JSON document, applies edits by path and prints
the result. Edited nodes are copied on write; every other subtree is
shared with the source document, which is never modified.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.format, "format", defaultFormat, "output format: yaml or json")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newSetCmd())
	root.AddCommand(newDeleteCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// setup loads configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return sysError{fmt.Errorf("resolve config dir: %w", err)}
	}

	v, err := loadConfig(configDir, cmd.Root())
	if err != nil {
		return sysError{err}
	}

	format := v.GetString(cfgKeyFormat)
	if format != doctree.FormatYAML && format != doctree.FormatJSON {
		return fmt.Errorf("%w: %q", doctree.ErrUnknownFormat, format)
	}

	level, err := log.ParseLevel(v.GetString(cfgKeyLogLevel))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	cfg = v
	logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "bowdoc",
		Level:  level,
	})
	logger.Debug("loaded config", "dir", configDir, "format", format)
	return nil
}

// sysError marks failures of the environment rather than of the input.
type sysError struct {
	err error
}

func (e sysError) Error() string { return e.err.Error() }
func (e sysError) Unwrap() error { return e.err }

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se sysError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}
