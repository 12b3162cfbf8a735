package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imrishuroy/go-storefront/internal/app"
	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/config"
)

var (
	// Global flags
	region     string
	endpoint   string
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "Operator tooling for the storefront backend",
	Long: `shopctl manages the storefront's DynamoDB tables, admin accounts,
credentials and carts. Settings come from the same environment variables
(and optional .env file) as the API.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "AWS region (overrides AWS_REGION)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "AWS endpoint override, e.g. http://localhost:8000 for DynamoDB Local")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if region != "" {
		cfg.AWSRegion = region
	}
	if endpoint != "" {
		cfg.AWSEndpointOverride = endpoint
	}
	return cfg, nil
}

func loadApp(ctx context.Context, needAuth bool) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if needAuth {
		if err := cfg.ValidateAuth(); err != nil {
			return nil, err
		}
	}
	clients, err := aws.NewAWSClients(ctx, cfg.AWSRegion, cfg.AWSEndpointOverride)
	if err != nil {
		return nil, fmt.Errorf("init aws clients: %w", err)
	}
	return app.New(cfg, clients)
}
