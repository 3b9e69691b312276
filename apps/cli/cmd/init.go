package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/xhrmock/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new xhrmock project",
	Long: `Initialize a new xhrmock project in the current directory.

This creates:
  - .xhrmock.config.json - Configuration file
  - routes.yaml          - Example fixture routes

Examples:
  xhrmock init
  xhrmock init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleRoutes = `# Routes are tried in order; the first one that matches answers the call.
routes:
  - name: get user
    method: GET
    url: "/users/{{id}}"
    headers:
      X-Request-Id: "{{$uuid}}"
    json:
      id: "{{id}}"
      name: Ada Lovelace
      fetchedAt: "{{$now}}"

  - name: create user
    method: POST
    url: /users
    status: 201
    requestSchema:
      type: object
      required: [name]
      properties:
        name:
          type: string
    json:
      name: "{{body.name}}"

  - name: list orders
    method: GET
    pattern: ^/orders(\?.*)?$
    body: "[]"
    headers:
      Content-Type: application/json

  # Never answers: the call times out after the default timeout
  - name: slow report
    method: GET
    url: /reports/slow
    timeout: true
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	routesFile := filepath.Join(cwd, "routes.yaml")

	if !forceInit {
		for _, f := range []string{configFile, routesFile} {
			if _, err := os.Stat(f); err == nil {
				return withExitCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Fixtures = []string{"routes.yaml"}
	cfg.Headers = map[string]string{
		"Accept": "application/json",
	}
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(routesFile, []byte(exampleRoutes), 0644); err != nil {
		return fmt.Errorf("failed to create routes file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", routesFile)

	fmt.Fprintln(cmd.OutOrStdout(), "\nxhrmock project initialized!")
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintln(cmd.OutOrStdout(), "  1. Edit routes.yaml to describe your endpoints")
	fmt.Fprintln(cmd.OutOrStdout(), "  2. Check them:  xhrmock validate routes.yaml")
	fmt.Fprintln(cmd.OutOrStdout(), `  3. Call one:    xhrmock run --call "GET /users/42" -v`)

	return nil
}
