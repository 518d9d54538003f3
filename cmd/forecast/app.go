package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/andresuchdata/stockcast/backend-go/internal/config"
	"github.com/andresuchdata/stockcast/backend-go/internal/repository"
	"github.com/andresuchdata/stockcast/backend-go/internal/repository/csvfile"
	"github.com/andresuchdata/stockcast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockcast/backend-go/internal/service"
	"github.com/andresuchdata/stockcast/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

const cliMaxConcurrentQueries = 4

type dataSource struct {
	sales     repository.SalesRepository
	inventory repository.InventoryRepository
	close     func() error
}

func newApp(out io.Writer) *cli.App {
	defaults := config.DefaultForecastConfig()

	return &cli.App{
		Name:  "forecast",
		Usage: "Compute demand forecasts from Postgres or CSV exports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db-url",
				Usage:   "Database connection string",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:  "sales-csv",
				Usage: "CSV with company_id, sku, sale_date, total_quantity",
			},
			&cli.StringFlag{
				Name:  "inventory-csv",
				Usage: "CSV with company_id, sku, inventory_quantity, product_title",
			},
			&cli.StringFlag{
				Name:     "company",
				Usage:    "Company id",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent SKU forecasts for company summaries",
				Value: defaults.Workers,
			},
			&cli.IntFlag{
				Name:  "max-products",
				Usage: "SKUs considered for a company summary",
				Value: defaults.MaxProducts,
			},
			&cli.IntFlag{
				Name:  "lead-time",
				Usage: "Supplier lead time in days",
				Value: defaults.LeadTimeDays,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Indent JSON output",
			},
		},
		Before: func(c *cli.Context) error {
			logger.Configure(c.App.ErrWriter, c.String("log-level"), "console")
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "sku",
				Usage:     "Forecast a single SKU",
				ArgsUsage: "<sku>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Forecast horizon in days",
						Value: defaults.DefaultDays,
					},
				},
				Action: func(c *cli.Context) error {
					sku := c.Args().First()
					if sku == "" {
						return cli.Exit("sku argument is required", 2)
					}

					return withService(c, func(svc *service.ForecastService) error {
						result, err := svc.Forecast(c.Context, c.String("company"), sku, c.Int("days"))
						switch {
						case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrInsufficientData):
							return cli.Exit(fmt.Sprintf("no forecast for %s: %v", sku, err), 1)
						case err != nil:
							return err
						}
						return writeJSON(out, result, c.Bool("pretty"))
					})
				},
			},
			{
				Name:  "company",
				Usage: "Summarize forecasts across a company's SKUs",
				Action: func(c *cli.Context) error {
					return withService(c, func(svc *service.ForecastService) error {
						summary := svc.GenerateCompanyForecastSummary(c.Context, c.String("company"))
						return writeJSON(out, summary, c.Bool("pretty"))
					})
				},
			},
		},
	}
}

func withService(c *cli.Context, fn func(*service.ForecastService) error) error {
	src, err := openDataSource(c)
	if err != nil {
		return err
	}
	defer src.close()

	cfg := config.DefaultForecastConfig()
	cfg.Workers = c.Int("workers")
	cfg.MaxProducts = c.Int("max-products")
	cfg.LeadTimeDays = c.Int("lead-time")

	return fn(service.NewForecastService(src.sales, src.inventory, cfg))
}

func openDataSource(c *cli.Context) (*dataSource, error) {
	salesCSV, inventoryCSV := c.String("sales-csv"), c.String("inventory-csv")

	switch {
	case salesCSV != "" || inventoryCSV != "":
		if salesCSV == "" || inventoryCSV == "" {
			return nil, cli.Exit("--sales-csv and --inventory-csv must be given together", 2)
		}
		store, err := csvfile.Load(salesCSV, inventoryCSV)
		if err != nil {
			return nil, err
		}
		return &dataSource{sales: store, inventory: store, close: func() error { return nil }}, nil

	case c.String("db-url") != "":
		db, err := sqlx.Open("pgx", c.String("db-url"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.PingContext(c.Context); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		capped := postgres.Wrap(db, cliMaxConcurrentQueries)
		return &dataSource{
			sales:     repository.NewSalesRepository(capped, config.DefaultForecastConfig().HistoryDays),
			inventory: repository.NewInventoryRepository(capped),
			close:     db.Close,
		}, nil

	default:
		return nil, cli.Exit("either --db-url or --sales-csv with --inventory-csv is required", 2)
	}
}

func writeJSON(out io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
