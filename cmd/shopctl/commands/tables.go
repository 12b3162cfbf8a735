package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spf13/cobra"

	"github.com/imrishuroy/go-storefront/internal/accounts"
	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/config"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage DynamoDB tables",
}

var tablesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the products, carts and accounts tables",
	Long: `Create every table the storefront needs. Tables that already exist
are reported and left untouched.

Examples:
  shopctl tables create --endpoint http://localhost:8000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		clients, err := aws.NewAWSClients(cmd.Context(), cfg.AWSRegion, cfg.AWSEndpointOverride)
		if err != nil {
			return fmt.Errorf("init aws clients: %w", err)
		}
		return runCreateTables(cmd.Context(), clients.Tables, cfg, cmd.OutOrStdout())
	},
}

func init() {
	tablesCmd.AddCommand(tablesCreateCmd)
	rootCmd.AddCommand(tablesCmd)
}

func tableDefinitions(cfg config.Config) []*dyn.CreateTableInput {
	return []*dyn.CreateTableInput{
		catalog.TableDefinition(cfg.ProductsTable),
		cart.TableDefinition(cfg.CartsTable),
		accounts.TableDefinition(cfg.AccountsTable),
	}
}

func runCreateTables(ctx context.Context, admin aws.TableAdminAPI, cfg config.Config, out io.Writer) error {
	for _, def := range tableDefinitions(cfg) {
		_, err := admin.CreateTable(ctx, def)
		var inUse *types.ResourceInUseException
		switch {
		case errors.As(err, &inUse):
			fmt.Fprintf(out, "exists   %s\n", *def.TableName)
		case err != nil:
			return fmt.Errorf("create table %s: %w", *def.TableName, err)
		default:
			fmt.Fprintf(out, "created  %s\n", *def.TableName)
		}
	}
	return nil
}
