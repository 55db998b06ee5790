// Command todo-app runs the todo app backend
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var service = &Service{}

var rootCmd = &cobra.Command{
	Use:   "todo-app",
	Short: "todo-app is the backend of the todo app",
	Long: `todo-app serves the todo app API. Goals, goal templates, named entities,
external events and their revisions are stored in Postgres or SQLite.

Every setting is read from the environment, command line flags take precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return service.load(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Int("port", 0, "the port to listen on (PORT)")
	flags.String("database-url", "", "the connection string of the database (DATABASE_URL)")
	flags.String("auth-service-url", "", "the base url of the auth service (AUTH_SERVICE_URL)")
	flags.String("site-external-url", "", "the external url of the web frontend (SITE_EXTERNAL_URL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}
