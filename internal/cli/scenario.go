package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storeroom/internal/script"
)

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in demonstration",
		Long: `Demo adds two sample items, retries a duplicate, looks one up, removes a
missing ID, and lists the registry in description order. It then repeats the
duplicate-addition and item-not-found checks on fresh registries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Demo()
			if err != nil {
				return sysError(err)
			}
			return a.runScript(cmd.OutOrStdout(), s, false)
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario file against fresh registries",
		Long: `Run executes the scenarios in a YAML file. Each scenario starts from an
empty registry, loads its items, and performs its steps in order. The command
fails when any step's outcome differs from its expectation.

Example:
  storeroom run checks.yaml
  storeroom run checks.yaml --backend sqlite --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.ParseFile(args[0])
			if err != nil {
				return err
			}
			return a.runScript(cmd.OutOrStdout(), s, true)
		},
	}
}

// runScript executes s and reports expectation failures. With summary set
// the run totals are printed after the narration.
func (a *app) runScript(out io.Writer, s *script.Script, summary bool) error {
	narration := out
	if a.flags.jsonMode {
		narration = io.Discard
	}

	res, err := script.NewRunner(a.registryConfig(), narration).Run(s)
	if err != nil {
		return err
	}

	if a.flags.jsonMode {
		if err := writeJSON(out, res); err != nil {
			return sysError(err)
		}
	} else if summary {
		fmt.Fprintf(out, "%d scenario(s), %d step(s), %d failure(s)\n", res.Scenarios, res.Steps, len(res.Failures))
		for _, f := range res.Failures {
			fmt.Fprintf(out, "FAIL %s\n", f)
		}
	}

	if !res.OK() {
		return fmt.Errorf("%d expectation(s) failed", len(res.Failures))
	}
	return nil
}
