// Package cli implements the storeroom command-line interface. Every
// invocation builds a fresh registry; nothing survives the process.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/storeroom/internal/logger"
	"github.com/mesh-intelligence/storeroom/internal/paths"
	"github.com/mesh-intelligence/storeroom/pkg/storeroom"
	"github.com/mesh-intelligence/storeroom/pkg/types"
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
	backend   string
	seed      string
	logLevel  string
	jsonMode  bool
}

// app carries the state shared by one command tree.
type app struct {
	flags rootFlags
	v     *viper.Viper
}

// NewRootCmd creates the top-level "storeroom" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "storeroom",
		Short: "An in-memory item registry indexed by ID and description",
		Long: `Storeroom keeps items in a registry keyed by a unique ID and lists them
in description order. Each invocation starts from an empty registry,
optionally seeded from a JSONL file.`,
		Version: storeroom.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.backend, "backend", "", "registry engine: memory or sqlite")
	root.PersistentFlags().StringVar(&a.flags.seed, "seed", "", "JSONL file of items to load before the command runs")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: off, debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newDemoCmd(a))
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newGetCmd(a))

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// setup loads configuration and initializes logging before any subcommand.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	if err := bindFlags(v, cmd); err != nil {
		return sysError(err)
	}
	a.v = v

	enabled, level, err := logger.ParseLevel(v.GetString(cfgKeyLogLevel))
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Options{
		Enabled: enabled,
		Level:   level,
		Format:  v.GetString(cfgKeyLogFormat),
		Writer:  cmd.ErrOrStderr(),
	}); err != nil {
		return err
	}

	logger.Debug("config loaded", "config_dir", configDir, "backend", v.GetString(cfgKeyBackend))
	return nil
}

// registryConfig returns the engine selection from the merged configuration.
func (a *app) registryConfig() types.Config {
	return types.Config{Backend: a.v.GetString(cfgKeyBackend)}
}

// cliError carries the exit code for an error returned by a command.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

// sysError marks err as an environment failure rather than a user mistake.
func sysError(err error) error {
	return &cliError{code: exitSysError, err: err}
}

// exitCode maps an error to a process exit code. Unmarked errors are user
// errors.
func exitCode(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitUserError
}
