package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/fxping/ratehub/internal/config"
	"github.com/fxping/ratehub/internal/currency"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ratehub",
		Usage: "exchange-rate proxy and cross-rate table exporter",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "path to a currency catalog YAML file (defaults to the embedded catalog)",
				EnvVars: []string{"CURRENCY_CATALOG"},
			},
			&cli.StringFlag{
				Name:    "excluded",
				Usage:   "comma-separated codes hidden from tables, \"-\" for none",
				EnvVars: []string{"EXCLUDED_CURRENCIES"},
			},
			&cli.StringFlag{
				Name:    "priority",
				Usage:   "comma-separated codes listed first when prioritizing, \"-\" for none",
				EnvVars: []string{"PRIORITY_CURRENCIES"},
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			tableCommand(),
			exportCommand(),
			currenciesCommand(),
		},
	}
}

func loadCatalog(path, excluded, priority string) (*currency.Catalog, error) {
	cat := currency.Default()
	if path != "" {
		var err error
		if cat, err = currency.Load(path); err != nil {
			return nil, err
		}
	}
	return cat.WithLists(currency.SplitList(excluded), currency.SplitList(priority)), nil
}

func catalogFromFlags(c *cli.Context) (*currency.Catalog, error) {
	return loadCatalog(c.String("catalog"), c.String("excluded"), c.String("priority"))
}
