package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Veraticus/gofinances/internal/cli"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list and restore database backups",
	}

	cmd.AddCommand(backupCreateCmd())
	cmd.AddCommand(backupListCmd())
	cmd.AddCommand(backupRestoreCmd())

	return cmd
}

func backupCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [TAG]",
		Short: "Snapshot the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			description, _ := cmd.Flags().GetString("description")

			tag := ""
			if len(args) == 1 {
				tag = args[0]
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bm, err := store.NewBackupManager()
			if err != nil {
				return err
			}

			info, err := bm.Create(ctx, tag, description)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created backup %s (%d keys)", info.ID, info.Keys)))
			return err
		},
	}

	cmd.Flags().String("description", "", "note stored with the backup")
	return cmd
}

func backupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bm, err := store.NewBackupManager()
			if err != nil {
				return err
			}

			backups, err := bm.List(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(backups) == 0 {
				_, err = fmt.Fprintln(out, cli.FormatInfo("No backups yet"))
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Created"),
				cli.TableHeaderStyle.Render("Size"),
				cli.TableHeaderStyle.Render("Keys"),
				cli.TableHeaderStyle.Render("Description"))
			for _, b := range backups {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					b.ID,
					humanize.Time(b.CreatedAt),
					humanize.Bytes(uint64(b.FileSize)), //nolint:gosec
					b.Keys,
					b.Description)
			}
			return tw.Flush()
		},
	}
}

func backupRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore ID",
		Short: "Replace the database contents with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			yes, _ := cmd.Flags().GetBool("yes")

			if !yes {
				prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				ok, err := prompter.Confirm(ctx, "Replace all stored data with backup "+args[0]+"?")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bm, err := store.NewBackupManager()
			if err != nil {
				return err
			}

			if err := bm.Restore(ctx, args[0]); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Restored backup "+args[0]))
			return err
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	return cmd
}
