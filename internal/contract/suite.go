package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leca/dt-restcountries/internal/model"
	"github.com/leca/dt-restcountries/internal/schema"
)

// Fetcher returns a freshly fetched dataset. *countries.Client implements it.
type Fetcher interface {
	FetchAll(ctx context.Context) (*model.Dataset, error)
}

// Options are the expected values the checks compare against.
type Options struct {
	ExpectedCount int
	CountryCode   string
	Language      string
}

// DefaultOptions returns the built-in expectations.
func DefaultOptions() Options {
	return Options{
		ExpectedCount: ExpectedCountryCount,
		CountryCode:   TargetCountryCode,
		Language:      TargetLanguage,
	}
}

// Cases returns every case in the order Run executes them.
func Cases() []Case {
	return []Case{CaseSchema, CaseCardinality, CaseLanguage}
}

// Outcome is the result of one case.
type Outcome struct {
	Case     Case
	Err      error
	Duration time.Duration
}

// Passed reports whether the case succeeded.
func (o Outcome) Passed() bool {
	return o.Err == nil
}

// Report collects the outcomes of a run.
type Report struct {
	Outcomes []Outcome
}

// Failed reports whether any case failed.
func (r Report) Failed() bool {
	return len(r.Failures()) > 0
}

// Failures returns the failed outcomes in run order.
func (r Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Passed() {
			out = append(out, o)
		}
	}
	return out
}

// Suite runs the cases. Every case performs its own fetch; nothing is shared
// between cases.
type Suite struct {
	fetcher Fetcher
	doc     *schema.Document
	opts    Options
	logger  *slog.Logger
}

// NewSuite creates a Suite. doc must already be loaded; a nil logger uses
// slog.Default().
func NewSuite(fetcher Fetcher, doc *schema.Document, opts Options, logger *slog.Logger) *Suite {
	if logger == nil {
		logger = slog.Default()
	}
	return &Suite{fetcher: fetcher, doc: doc, opts: opts, logger: logger}
}

// Run executes every case sequentially and returns their outcomes.
func (s *Suite) Run(ctx context.Context) Report {
	var report Report
	for _, c := range Cases() {
		report.Outcomes = append(report.Outcomes, s.RunCase(ctx, c))
	}
	return report
}

// RunCase fetches a dataset and applies one case to it. Fetch errors are
// returned unchanged in the outcome.
func (s *Suite) RunCase(ctx context.Context, c Case) Outcome {
	start := time.Now()
	err := s.runCase(ctx, c)
	o := Outcome{Case: c, Err: err, Duration: time.Since(start)}

	if o.Passed() {
		s.logger.Info("case passed", "case", c, "duration", o.Duration)
		return o
	}

	attrs := []any{"case", c, "duration", o.Duration, "error", err}
	var ae *AssertionError
	if errors.As(err, &ae) {
		attrs = append(attrs, "expected", ae.Expected, "actual", ae.Actual)
		if len(ae.Violations) > 0 {
			attrs = append(attrs, "violations", len(ae.Violations))
		}
	}
	s.logger.Error("case failed", attrs...)
	return o
}

func (s *Suite) runCase(ctx context.Context, c Case) error {
	ds, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return err
	}

	switch c {
	case CaseCardinality:
		return CheckCardinality(ds, s.opts.ExpectedCount)
	case CaseLanguage:
		return CheckLanguage(ds, s.opts.CountryCode, s.opts.Language)
	case CaseSchema:
		return CheckSchema(s.doc, ds)
	default:
		return fmt.Errorf("unknown case %q", c)
	}
}
