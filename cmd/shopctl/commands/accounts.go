package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/imrishuroy/go-storefront/internal/accounts"
	"github.com/imrishuroy/go-storefront/internal/identity"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage accounts",
}

// accountsCreateAdminCmd is the only way to create an admin; the API
// never registers one.
var accountsCreateAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Long: `Create an admin account.

Examples:
  shopctl accounts create-admin --email ops@example.com --name "Ops" --password hunter22`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		return runCreateAdmin(cmd.Context(), a.AccountService, adminName, adminEmail, adminPassword, cmd.OutOrStdout())
	},
}

func init() {
	accountsCreateAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	accountsCreateAdminCmd.Flags().StringVar(&adminName, "name", "", "Admin full name")
	accountsCreateAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (min 6 characters)")
	_ = accountsCreateAdminCmd.MarkFlagRequired("email")
	_ = accountsCreateAdminCmd.MarkFlagRequired("name")
	_ = accountsCreateAdminCmd.MarkFlagRequired("password")

	accountsCmd.AddCommand(accountsCreateAdminCmd)
	rootCmd.AddCommand(accountsCmd)
}

func runCreateAdmin(ctx context.Context, svc *accounts.Service, name, email, password string, out io.Writer) error {
	acct, err := svc.Register(ctx, accounts.RegisterInput{
		FullName: name,
		Email:    email,
		Password: password,
		Role:     identity.RoleAdmin,
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return json.NewEncoder(out).Encode(acct)
	}
	fmt.Fprintf(out, "created admin %s (id %s)\n", acct.Email, acct.SubjectID)
	return nil
}
