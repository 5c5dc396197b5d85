package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"insta_syncer/internal/domain"
	"insta_syncer/internal/service"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		limit     int
		orphaned  bool
		olderThan time.Duration
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent sync attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			svc, err := ctx.syncService()
			if err != nil {
				return err
			}

			var attempts []domain.SyncAttempt
			if orphaned {
				attempts, err = svc.OrphanedAttempts(cmd.Context(), olderThan)
			} else {
				attempts, err = svc.RecentAttempts(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), attempts)
			}
			if len(attempts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sync attempts")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderAttempts(attempts))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", service.DefaultAttemptLimit, "Number of attempts to show")
	cmd.Flags().BoolVar(&orphaned, "orphaned", false, "Show only attempts left running")
	cmd.Flags().DurationVar(&olderThan, "older-than", service.DefaultOrphanAge, "Age after which a running attempt counts as orphaned")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print attempts as JSON")
	return cmd
}

func renderAttempts(attempts []domain.SyncAttempt) string {
	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		duration := "-"
		if a.CompletedAt != nil {
			duration = a.CompletedAt.Sub(a.StartedAt).Round(time.Millisecond).String()
		}
		errMsg := ""
		if a.ErrorMessage != nil {
			errMsg = truncate(*a.ErrorMessage, 50)
		}
		rows = append(rows, []string{
			a.StartedAt.Local().Format("2006-01-02 15:04:05"),
			a.AccountHandle,
			string(a.Category),
			string(a.Status),
			strconv.Itoa(a.RecordsProcessed),
			strconv.Itoa(a.RecordsCreated),
			strconv.Itoa(a.RecordsUpdated),
			strconv.Itoa(a.RecordsFailed),
			duration,
			errMsg,
		})
	}
	return renderTable(
		[]string{"Started", "Account", "Category", "Status", "Processed", "Created", "Updated", "Failed", "Took", "Error"},
		rows,
		5, 6, 7, 8, 9,
	)
}
