package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"insta_syncer/internal/domain"
)

func newAccountsCommand(ctx *commandContext) *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage tracked accounts",
	}

	accountsCmd.AddCommand(&cobra.Command{
		Use:   "add <handle>",
		Short: "Start tracking an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			svc, err := ctx.syncService()
			if err != nil {
				return err
			}

			account, created, err := svc.ConnectAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Connected %s\n", account.Handle)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Reactivated %s\n", account.Handle)
			}
			return nil
		},
	})

	accountsCmd.AddCommand(&cobra.Command{
		Use:   "deactivate <handle>",
		Short: "Stop tracking an account; its history is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			svc, err := ctx.syncService()
			if err != nil {
				return err
			}

			if err := svc.DeactivateAccount(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated %s\n", args[0])
			return nil
		},
	})

	accountsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tracked accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			svc, err := ctx.syncService()
			if err != nil {
				return err
			}

			accounts, err := svc.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderAccounts(accounts, time.Now()))
			return nil
		},
	})

	return accountsCmd
}

func renderAccounts(accounts []domain.Account, now time.Time) string {
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		lastSync := "never"
		if a.LastSyncAt != nil {
			lastSync = now.Sub(*a.LastSyncAt).Round(time.Minute).String() + " ago"
		}
		rows = append(rows, []string{
			a.Handle,
			a.DisplayName,
			strconv.FormatInt(a.FollowersCount, 10),
			strconv.FormatInt(a.MediaCount, 10),
			lastSync,
			yesNo(a.Active),
		})
	}
	return renderTable(
		[]string{"Handle", "Name", "Followers", "Media", "Last sync", "Active"},
		rows,
		3, 4,
	)
}
