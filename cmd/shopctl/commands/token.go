package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/imrishuroy/go-storefront/internal/identity"
)

var (
	tokenSubject string
	tokenRole    string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Work with bearer credentials",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a signed credential for a subject",
	Long: `Issue a signed credential for testing against the API.

Examples:
  shopctl token issue --sub 6f1c... --role seller
  curl -H "x-access-token: $(shopctl token issue --sub u1 --role customer)" localhost:8080/api/cart`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.ValidateAuth(); err != nil {
			return err
		}
		issuer := identity.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
		return runIssueToken(issuer, tokenSubject, tokenRole, time.Now(), cmd.OutOrStdout())
	},
}

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenSubject, "sub", "", "Subject id")
	tokenIssueCmd.Flags().StringVar(&tokenRole, "role", string(identity.RoleCustomer), "Role: customer, seller or admin")
	_ = tokenIssueCmd.MarkFlagRequired("sub")

	tokenCmd.AddCommand(tokenIssueCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runIssueToken(issuer *identity.Issuer, sub, role string, now time.Time, out io.Writer) error {
	r, ok := identity.ParseRole(role)
	if !ok {
		return fmt.Errorf("unknown role %q", role)
	}
	token, exp, err := issuer.Issue(identity.Subject{ID: sub, Role: r}, now)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	if jsonOutput {
		return json.NewEncoder(out).Encode(map[string]any{"token": token, "expiresAt": exp})
	}
	fmt.Fprintln(out, token)
	return nil
}
