package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/linesmerrill/studio-api/client"
	"github.com/linesmerrill/studio-api/client/poll"
	"github.com/linesmerrill/studio-api/models"
)

func newJobsCommand(rem *remote) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect admin bulk jobs",
	}

	var interval time.Duration
	wait := &cobra.Command{
		Use:   "wait <job-id>",
		Short: "Poll a job until it completes or fails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := rem.client()
			id := args[0]
			out := cmd.OutOrStdout()
			job, err := poll.UntilDone(cmd.Context(), interval, func(ctx context.Context) (models.Job, error) {
				return c.GetJob(ctx, id)
			}, func(j models.Job) {
				fmt.Fprintf(out, "%s %s %d/%d failed=%d\n", j.Kind, j.Status, j.Processed, j.Total, j.Failed)
			})
			if err != nil {
				return err
			}
			for _, msg := range job.Errors {
				fmt.Fprintf(out, "  error: %s\n", msg)
			}
			if job.Status == models.JobFailed {
				return fmt.Errorf("job %s failed", id)
			}
			return nil
		},
	}
	wait.Flags().DurationVar(&interval, "interval", poll.Interval, "delay between two polls")
	cmd.AddCommand(wait)
	return cmd
}

func newInvitationsCommand(rem *remote) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invitations",
		Short: "Inspect onboarding invitations",
	}

	var status string
	var all bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "List invitations with their derived status",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := rem.client()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TOKEN\tLABEL\tSTATUS\tUSES\tEXPIRES")

			opts := client.ListOptions{Page: 1, Limit: 100, Status: status}
			for {
				page, err := c.ListInvitations(cmd.Context(), opts)
				if err != nil {
					return err
				}
				for _, inv := range page.Items {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%s\n",
						inv.Token, inv.Label, inv.Status, inv.UsedCount, inv.MaxUses, inv.ExpiresAt.UTC().Format(time.RFC3339))
				}
				if !all || !page.Pagination.HasNextPage {
					break
				}
				opts.Page++
			}
			return tw.Flush()
		},
	}
	statusCmd.Flags().StringVar(&status, "status", "", "only show active, revoked, expired or used-up invitations")
	statusCmd.Flags().BoolVar(&all, "all", false, "follow every page")
	cmd.AddCommand(statusCmd)
	return cmd
}
