package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/leca/dt-restcountries/internal/config"
	"github.com/leca/dt-restcountries/internal/contract"
	"github.com/leca/dt-restcountries/internal/countries"
	"github.com/leca/dt-restcountries/internal/storage"
	"github.com/leca/dt-restcountries/schemas"
	"github.com/urfave/cli/v3"
)

var errCasesFailed = errors.New("contract cases failed")

// newCommand builds the countrycheck command tree. Flag defaults come from
// cfg so DT_* variables and .env apply unless a flag overrides them.
func newCommand(cfg *config.Config, stdout io.Writer, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "countrycheck",
		Usage: "Contract checks for the restcountries /all endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "endpoint",
				Value: cfg.Target,
				Usage: "URL of the /all endpoint",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: cfg.HTTPTimeout,
				Usage: "Per-request timeout",
			},
			&cli.StringFlag{
				Name:  "snapshot-dir",
				Value: cfg.StoragePath,
				Usage: "Directory holding stored snapshots",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the schema, cardinality and language cases",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "schema",
						Value: cfg.SchemaPath,
						Usage: "Schema document (JSON or YAML); empty uses the built-in schema",
					},
					&cli.IntFlag{
						Name:  "expected-count",
						Value: cfg.ExpectedCount,
						Usage: "Exact number of records expected",
					},
					&cli.StringFlag{
						Name:  "code",
						Value: cfg.TargetCode,
						Usage: "cca2 code of the record checked for the language",
					},
					&cli.StringFlag{
						Name:  "language",
						Value: cfg.TargetLanguage,
						Usage: "Language name the record must list",
					},
					&cli.StringFlag{
						Name:  "from-snapshot",
						Usage: "Run against a stored snapshot (run ID or \"latest\") instead of the endpoint",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runCases(ctx, c, stdout, logger)
				},
			},
			{
				Name:  "snapshot",
				Usage: "Fetch the endpoint once and store the raw payload",
				Action: func(ctx context.Context, c *cli.Command) error {
					return takeSnapshot(ctx, c, stdout, logger)
				},
			},
		},
	}
}

func runCases(ctx context.Context, c *cli.Command, stdout io.Writer, logger *slog.Logger) error {
	doc, err := schemas.Load(c.String("schema"))
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(c)
	if err != nil {
		return err
	}

	opts := contract.Options{
		ExpectedCount: c.Int("expected-count"),
		CountryCode:   c.String("code"),
		Language:      c.String("language"),
	}
	report := contract.NewSuite(fetcher, doc, opts, logger).Run(ctx)
	printReport(stdout, report)

	if report.Failed() {
		return fmt.Errorf("%w: %d of %d", errCasesFailed, len(report.Failures()), len(report.Outcomes))
	}
	return nil
}

func takeSnapshot(ctx context.Context, c *cli.Command, stdout io.Writer, logger *slog.Logger) error {
	client := newClient(c)
	body, err := client.FetchRaw(ctx)
	if err != nil {
		return err
	}
	ds, err := countries.Decode(body)
	if err != nil {
		var mre *countries.MalformedResponseError
		if errors.As(err, &mre) {
			mre.Endpoint = client.Endpoint()
		}
		return err
	}

	store := storage.NewFileSystem(c.String("snapshot-dir"))
	runID := storage.NewRunID()
	n, err := store.Store(runID, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}

	logger.Info("snapshot stored",
		"run_id", runID,
		"endpoint", client.Endpoint(),
		"countries", ds.Len(),
		"bytes", n,
		"path", store.Path(runID),
	)
	fmt.Fprintln(stdout, runID)
	return nil
}

func newClient(c *cli.Command) *countries.Client {
	hc := countries.DefaultClientConfig()
	if t := c.Duration("timeout"); t > 0 {
		hc.Timeout = t
	}
	return countries.NewClient(countries.NewHTTPClient(&hc), c.String("endpoint"))
}

func newFetcher(c *cli.Command) (contract.Fetcher, error) {
	ref := c.String("from-snapshot")
	if ref == "" {
		return newClient(c), nil
	}

	store := storage.NewFileSystem(c.String("snapshot-dir"))
	runID := ref
	if ref == "latest" {
		var err error
		if runID, err = store.Latest(); err != nil {
			return nil, fmt.Errorf("resolve latest snapshot: %w", err)
		}
	}
	ok, err := store.Exists(runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: snapshot %s", storage.ErrNotFound, runID)
	}

	return &countries.Replay{
		Source: "snapshot:" + runID,
		Open:   func() (io.ReadCloser, error) { return store.Retrieve(runID) },
	}, nil
}

func printReport(w io.Writer, report contract.Report) {
	for _, o := range report.Outcomes {
		d := o.Duration.Round(time.Millisecond)
		if o.Passed() {
			fmt.Fprintf(w, "PASS  %-12s %s\n", o.Case, d)
			continue
		}
		fmt.Fprintf(w, "FAIL  %-12s %s\n", o.Case, d)
		fmt.Fprintf(w, "      %v\n", o.Err)
	}
	fmt.Fprintf(w, "%d passed, %d failed\n",
		len(report.Outcomes)-len(report.Failures()), len(report.Failures()))
}
