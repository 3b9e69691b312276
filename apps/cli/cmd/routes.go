package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/xhrmock/packages/fixture"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes <file|directory>",
	Short: "List the routes in fixture files",
	Long: `List every route declared in fixture files, in the order the
registry consults them.

Examples:
  xhrmock routes routes.yaml
  xhrmock routes ./fixtures/`,
	Args: cobra.MinimumNArgs(1),
	RunE: routesCommand,
}

func routesCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no .yaml, .yml or .json files found"))
	}

	failed := false
	for _, file := range files {
		f, err := fixture.Load(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing %s: %v\n", file, err)
			failed = true
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", file)
		for _, route := range f.Routes {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", route)
			fmt.Fprintf(cmd.OutOrStdout(), "    %s %s -> %d", route.Method, route.Target(), route.Status)
			if route.Timeout.Set {
				fmt.Fprintf(cmd.OutOrStdout(), " (timeout %s)", route.Timeout.Duration)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n")
		}
	}

	if failed {
		return withExitCode(ExitParseError, fmt.Errorf("some fixtures could not be parsed"))
	}
	return nil
}
