// Package cli defines the cobra command tree for the visitor register.
package cli

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/evcraddock/visitor-register/internal/client"
	"github.com/evcraddock/visitor-register/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vr",
		Short:         "Front-desk visitor register",
		Long:          "Check visitors in and out, review visit history, and handle pre-registrations. Run 'vr serve' for the API server; other commands talk to it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: $VR_DB_PATH or ~/.visitor-register/visitors.db)")

	root.AddCommand(
		newServeCmd(),
		newCheckInCmd(),
		newCheckOutCmd(),
		newHistoryCmd(),
		newStatsCmd(),
		newExportCmd(),
		newFeedbackCmd(),
		newPreregisterCmd(),
		newPreregsCmd(),
		newApproveCmd(),
		newDeclineCmd(),
		newQRCmd(),
		newConfigCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag, then configured,
// then the default path.
func openDB(configured string) (*sql.DB, error) {
	path := flagDB
	if path == "" {
		path = configured
	}
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the visitor register API.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), getAdminToken())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
