package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/itrgo/internal/auth"
	"github.com/rgehrsitz/itrgo/internal/output"
	"github.com/rgehrsitz/itrgo/internal/storage"
	"github.com/spf13/cobra"
)

var errNotAdmin = errors.New("records are visible to admin accounts only")

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Export the assessment history as CSV (admin only)",
	Long: `Export every stored assessment, newest first, as CSV.

The default accounts are created on first use; sign in with an admin account:
  ./itrgo records --db itrgo.db --user admin --password admin123`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		username, _ := cmd.Flags().GetString("user")
		password, _ := cmd.Flags().GetString("password")

		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		authenticator := auth.NewAuthenticator(store)
		if err := authenticator.Seed(ctx); err != nil {
			return err
		}
		identity, ok := authenticator.Login(ctx, username, password)
		if !ok {
			return errors.New("invalid username or password")
		}
		if !identity.IsAdmin() {
			return errNotAdmin
		}

		records, err := store.ListAll(ctx)
		if err != nil {
			return err
		}
		data, err := output.RecordsCSV(records)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage login accounts",
}

var usersAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Create a login account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		password, _ := cmd.Flags().GetString("password")

		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if !auth.NewAuthenticator(store).Register(context.Background(), args[0], password) {
			return fmt.Errorf("could not create user %q: name taken or password empty", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ User %s created (role %s)\n", args[0], auth.IdentityFor(args[0]).Role)
		return nil
	},
}

func initRecordsCommands() {
	recordsCmd.Flags().String("db", "itrgo.db", "SQLite database holding the records")
	recordsCmd.Flags().StringP("user", "u", "", "Account name")
	recordsCmd.Flags().StringP("password", "p", "", "Account password")

	usersAddCmd.Flags().String("db", "itrgo.db", "SQLite database holding the accounts")
	usersAddCmd.Flags().StringP("password", "p", "", "Password for the new account")

	usersCmd.AddCommand(usersAddCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(usersCmd)
}
