// The simulator binary generates synthetic data: visitor sessions dispatched
// against an ingestion API, and commerce datasets with derived analytics.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/commerce"
	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/config"
	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/random"
	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/session"
)

var (
	configPath string
	seed       int64
)

func main() {
	root := &cobra.Command{
		Use:   "simulator",
		Short: "Generate synthetic behavioral and commerce data",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	root.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 means time-based)")

	root.AddCommand(sessionsCmd(), commerceCmd(), promptCmd(), exportCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if seed != 0 {
		cfg.Simulator.Seed = seed
	}
	return cfg, nil
}

func newSource(cfg *config.Config) *random.Source {
	s := cfg.Simulator.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	return random.New(s)
}

func sessionsCmd() *cobra.Command {
	var target string
	var count int
	var archetype string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Generate visitor sessions and dispatch them to the ingestion API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if target == "" {
				target = cfg.Simulator.TargetURL
			}
			if count == 0 {
				count = cfg.Simulator.Sessions
			}

			logger := initLogger(cfg.Environment)
			defer logger.Sync()

			src := newSource(cfg)
			sim := session.NewSimulator(src)
			client := session.NewClient(target, cfg.Simulator.RequestTimeout)
			runner := session.NewRunner(sim, client, logger, cfg.Simulator.EventDelay)

			distribution := session.DefaultArchetypeWeights
			if archetype != "" && archetype != string(session.ArchetypeRandom) {
				forced := session.Archetype(archetype)
				if !forced.Valid() {
					return fmt.Errorf("unknown archetype %q: use browser, researcher or high_intent_buyer", archetype)
				}
				distribution = map[session.Archetype]float64{forced: 1}
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stats, runErr := runner.Run(ctx, count, distribution)

			fmt.Printf("Total Sessions: %d\n", stats.TotalSessions)
			fmt.Printf("Total Events:   %d\n", stats.TotalEvents)
			fmt.Printf("Successful:     %d\n", stats.SuccessfulEvents)
			fmt.Printf("Failed:         %d\n", stats.FailedEvents)
			fmt.Println("Archetypes:")
			for a, n := range stats.Archetypes {
				fmt.Printf("  %s: %d\n", a, n)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "ingestion API base URL (default from config)")
	cmd.Flags().IntVar(&count, "count", 0, "number of sessions (default from config)")
	cmd.Flags().StringVar(&archetype, "archetype", "random", "force one archetype: browser, researcher or high_intent_buyer")
	return cmd
}

func commerceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commerce",
		Short: "Generate a commerce dataset and print its analytics summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, summary, _, _, _, err := buildCommerce()
			if err != nil {
				return err
			}
			return printJSON(summary)
		},
	}
	return cmd
}

func promptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Generate the structured analysis prompt for the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, summary, products, _, orders, err := buildCommerce()
			if err != nil {
				return err
			}
			prompt, err := commerce.ComposePrompt(summary, orders, products)
			if err != nil {
				return err
			}
			fmt.Println(prompt)
			return nil
		},
	}
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dataset in the commerce-platform edge-list shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, products, customers, orders, err := buildCommerce()
			if err != nil {
				return err
			}
			return printJSON(commerce.ExportShopData(cfg.Commerce.ShopID, products, customers, orders))
		},
	}
	return cmd
}

// buildCommerce runs the full commerce pipeline: catalog, customers, orders,
// summary.
func buildCommerce() (*config.Config, *commerce.AnalyticsSummary, []commerce.Product, []commerce.Customer, []commerce.Order, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	src := newSource(cfg)
	catalog := commerce.NewCatalogGenerator(src)
	products := catalog.GenerateProducts(cfg.Commerce.Products)
	customers := catalog.GenerateCustomers(cfg.Commerce.Customers)
	orders := commerce.NewOrderGenerator(src).GenerateOrders(cfg.Commerce.Orders, products, customers)
	summary := commerce.NewAggregator(cfg.Commerce.ShopID).Summarize(orders, customers, products)

	return cfg, summary, products, customers, orders, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func initLogger(environment string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	return logger
}
