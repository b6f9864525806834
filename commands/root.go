// Package commands holds the studio-api command line
package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linesmerrill/studio-api/client"
	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
)

// Version is stamped at build time
var Version = "dev"

// remote holds the flags of the commands that talk to a running api
type remote struct {
	apiURL string
	token  string
}

func (r *remote) client() *client.Client {
	return client.New(r.apiURL, r.token)
}

// NewRootCommand builds the studio-api command tree
func NewRootCommand() *cobra.Command {
	rem := &remote{}
	cmd := &cobra.Command{
		Use:           "studio-api",
		Short:         "Agency studio backend",
		Long:          "studio-api serves the agency dashboard: model profiles, caption banks, the social feed,\nonboarding invitations, the Instagram content pipeline and admin bulk jobs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&rem.apiURL, "api-url", envOr("STUDIO_API_URL", "http://localhost:8080"), "base url of a running studio-api")
	cmd.PersistentFlags().StringVar(&rem.token, "token", os.Getenv("STUDIO_TOKEN"), "bearer token for the api")

	cmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newSeedCommand(),
		newJobsCommand(rem),
		newInvitationsCommand(rem),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				cmd.Printf("studio-api %s\n", Version)
			},
		},
	)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// connect opens the configured database for the maintenance commands
func connect(ctx context.Context, conf *config.Config) (databases.ClientHelper, databases.DatabaseHelper, error) {
	client, err := databases.NewClient(conf)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Connect(ctx); err != nil {
		return nil, nil, err
	}
	zap.S().Debugw("connected to database", "name", conf.DatabaseName)
	return client, databases.NewDatabase(conf, client), nil
}
