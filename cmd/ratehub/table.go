package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/fxping/ratehub/internal/converter"
	"github.com/fxping/ratehub/internal/domain"
	"github.com/fxping/ratehub/internal/export"
	"github.com/fxping/ratehub/internal/rates"
	"github.com/fxping/ratehub/internal/table"
)

const defaultEndpoint = "http://localhost:5000/rates"

func viewFlags() []cli.Flag {
	def := domain.DefaultViewState()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "rates endpoint URL",
			Value:   defaultEndpoint,
			EnvVars: []string{"RATEHUB_ENDPOINT"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "fetch timeout",
			Value: 20 * time.Second,
		},
		&cli.StringFlag{Name: "base", Aliases: []string{"b"}, Usage: "base currency code", Value: def.Base},
		&cli.StringFlag{Name: "amount", Aliases: []string{"a"}, Usage: "amount in the base currency", Value: def.Amount},
		&cli.StringFlag{Name: "margin", Aliases: []string{"m"}, Usage: "margin percentage", Value: def.Margin},
		&cli.StringFlag{Name: "sort", Usage: "sort column: code, currency, location or rate", Value: string(def.Sort)},
		&cli.StringFlag{Name: "order", Usage: "sort direction: asc or desc", Value: string(def.Order)},
		&cli.StringFlag{Name: "filter", Aliases: []string{"f"}, Usage: "show codes containing these letters"},
		&cli.StringFlag{Name: "compare", Usage: "rate filter: gt or lt", Value: string(def.Compare)},
		&cli.StringFlag{Name: "threshold", Usage: "rate filter threshold"},
		&cli.BoolFlag{Name: "prioritize", Aliases: []string{"p"}, Usage: "list common currencies first"},
	}
}

// applyFlags feeds the view flags through the converter's mutators.
func applyFlags(conv *converter.Converter, c *cli.Context) {
	conv.SetBase(c.String("base"))
	conv.SetAmount(c.String("amount"))
	conv.SetMargin(c.String("margin"))
	conv.SetSort(domain.ParseSortKey(c.String("sort")), domain.ParseDirection(c.String("order")))
	conv.SetFilter(c.String("filter"))
	conv.SetRateFilter(domain.ParseComparison(c.String("compare")), c.String("threshold"))
	conv.SetPrioritize(c.Bool("prioritize"))
}

// deriveFromFlags fetches one snapshot and derives the table for the flag view.
func deriveFromFlags(c *cli.Context) (table.Table, error) {
	cat, err := catalogFromFlags(c)
	if err != nil {
		return table.Table{}, fmt.Errorf("loading currency catalog: %w", err)
	}

	client := rates.NewClient(c.String("endpoint"), c.Duration("timeout"), 0, 0)
	conv := converter.New(client, cat)
	applyFlags(conv, c)

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()
	if err := conv.Refresh(ctx); err != nil {
		return table.Table{}, cli.Exit(fmt.Sprintf("Error: %s", conv.Err()), 1)
	}
	return conv.Table(), nil
}

func tableCommand() *cli.Command {
	return &cli.Command{
		Name:  "table",
		Usage: "fetch rates and print the derived table",
		Flags: append(viewFlags(),
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of a text table"},
		),
		Action: func(c *cli.Context) error {
			t, err := deriveFromFlags(c)
			if err != nil {
				return err
			}

			if c.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(t)
			}

			fmt.Printf("Base: %s  Amount: %s  Margin: %s%%\n", t.Base, t.Amount, t.Margin)
			if t.LastUpdateUTC != "" {
				fmt.Printf("Last updated: %s\n", t.LastUpdateUTC)
			}
			fmt.Println()
			return export.WriteText(os.Stdout, t.Export())
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "fetch rates and export the derived table to csv, xlsx, pdf or Google Sheets",
		Flags: append(viewFlags(),
			&cli.StringFlag{
				Name:  "format",
				Usage: "csv, xlsx, pdf or sheets",
				Value: string(export.FormatCSV),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file (defaults to exchange_rates.<format>)",
			},
			&cli.StringFlag{
				Name:    "spreadsheet-id",
				Usage:   "target spreadsheet for --format sheets",
				EnvVars: []string{"GOOGLE_SPREADSHEET_ID"},
			},
			&cli.StringFlag{
				Name:    "credentials-file",
				Usage:   "service account JSON for --format sheets",
				EnvVars: []string{"GOOGLE_CREDENTIALS_FILE"},
			},
		),
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	if strings.EqualFold(c.String("format"), "sheets") {
		return exportSheets(c)
	}

	format, err := export.ParseFormat(c.String("format"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	t, err := deriveFromFlags(c)
	if err != nil {
		return err
	}

	out := c.String("output")
	if out == "" {
		out = format.Filename()
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := export.Encode(f, format, t.Export()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(t.Rows), out)
	return nil
}

func exportSheets(c *cli.Context) error {
	id, credsPath := c.String("spreadsheet-id"), c.String("credentials-file")
	if id == "" || credsPath == "" {
		return cli.Exit("--spreadsheet-id and --credentials-file are required for sheets export", 2)
	}
	creds, err := os.ReadFile(credsPath)
	if err != nil {
		return fmt.Errorf("reading credentials: %w", err)
	}

	t, err := deriveFromFlags(c)
	if err != nil {
		return err
	}

	writer, err := export.NewSheetsWriter(c.Context, id, string(creds))
	if err != nil {
		return err
	}
	if err := writer.Write(c.Context, t.Export()); err != nil {
		return err
	}

	fmt.Printf("Wrote %d rows to sheet %s of %s\n", len(t.Rows), export.SheetName, id)
	return nil
}

func currenciesCommand() *cli.Command {
	return &cli.Command{
		Name:  "currencies",
		Usage: "list the currency catalog",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "list-excluded", Usage: "list only the codes hidden from tables"},
		},
		Action: func(c *cli.Context) error {
			cat, err := catalogFromFlags(c)
			if err != nil {
				return err
			}

			if c.Bool("list-excluded") {
				fmt.Println(strings.Join(cat.ExcludedCodes(), "\n"))
				return nil
			}

			rows := [][]string{{"Code", "Currency", "Location", "Numeric", "Decimals"}}
			for _, m := range cat.All() {
				rows = append(rows, []string{m.Code, m.Name, m.Location, m.Numeric, fmt.Sprint(m.Decimals())})
			}
			return export.WriteText(os.Stdout, rows)
		},
	}
}
