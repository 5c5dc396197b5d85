package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"insta_syncer/internal/domain"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var (
		force    bool
		syncType string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync cycle over every active account",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			svc, err := ctx.syncService()
			if err != nil {
				return err
			}

			req := domain.TriggerRequest{SyncType: domain.Category(syncType), Force: force}
			summary, err := svc.Trigger(cmd.Context(), req)
			if errors.Is(err, domain.ErrScheduleSkip) {
				fmt.Fprintln(cmd.OutOrStdout(), "Skipped: outside every sync window (use --force to run anyway)")
				return nil
			}
			if err != nil {
				return err
			}

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), renderAccountResults(summary.Results))
				fmt.Fprintln(cmd.OutOrStdout(), summary.String())
			}

			if summary.Failed > 0 {
				return fmt.Errorf("sync %s", summary.Outcome())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Run even outside the sync windows")
	cmd.Flags().StringVar(&syncType, "type", "", "Override the strategy: profile, media or full")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run summary as JSON")
	return cmd
}

func newSyncAccountCommand(ctx *commandContext) *cobra.Command {
	var action string

	cmd := &cobra.Command{
		Use:   "sync-account <handle>",
		Short: "Run one manual sync action for a single account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			svc, err := ctx.syncService()
			if err != nil {
				return err
			}

			result, err := svc.TriggerAccount(cmd.Context(), action, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderCategoryResults(result.Categories))
			if !result.Success {
				return fmt.Errorf("sync %s: %s", result.Handle, result.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&action, "action", "sync_full", "One of sync_profile, sync_media, sync_stories, sync_full")
	return cmd
}

func renderAccountResults(results []domain.AccountResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		categories := make([]string, 0, len(r.Categories))
		for _, c := range r.Categories {
			categories = append(categories, string(c.Category)+":"+string(c.Status))
		}
		rows = append(rows, []string{
			r.Handle,
			string(r.Strategy),
			yesNo(r.Success),
			strings.Join(categories, " "),
			truncate(r.Error, 60),
		})
	}
	return renderTable(
		[]string{"Account", "Strategy", "OK", "Categories", "Error"},
		rows,
	)
}

func renderCategoryResults(results []domain.CategoryResult) string {
	rows := make([][]string, 0, len(results))
	for _, c := range results {
		rows = append(rows, []string{
			string(c.Category),
			string(c.Status),
			strconv.Itoa(c.Processed),
			strconv.Itoa(c.Created),
			strconv.Itoa(c.Updated),
			strconv.Itoa(c.Failed),
			truncate(c.Error, 60),
		})
	}
	return renderTable(
		[]string{"Category", "Status", "Processed", "Created", "Updated", "Failed", "Error"},
		rows,
		3, 4, 5, 6,
	)
}
