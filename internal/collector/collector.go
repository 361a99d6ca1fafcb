package collector

import (
	"context"
	"log/slog"

	"github.com/tidescan/tidescan/internal/model"
)

// TaxonomyClient is the remote read surface the collector depends on.
// Both operations follow the graceful-empty contract: degraded remote
// responses yield empty slices, and only transport-level failures
// return errors.
type TaxonomyClient interface {
	// FetchClasses retrieves the ordered threat class identifiers.
	FetchClasses(ctx context.Context) ([]model.ThreatClass, error)

	// FetchProperties retrieves the ordered property identifiers for
	// one threat class.
	FetchProperties(ctx context.Context, class model.ThreatClass) ([]model.ThreatProperty, error)

	// Endpoint returns the taxonomy endpoint URL, recorded in the report.
	Endpoint() string
}

// ProgressFunc is invoked after each class's property fetch completes.
// done counts completed classes (success and empty-result alike) and
// increases monotonically up to total. The signal carries no
// success/failure information.
type ProgressFunc func(done, total int)

// Collector assembles a ClassificationReport from a TaxonomyClient.
type Collector struct {
	// client performs the remote reads.
	client TaxonomyClient

	// logger records retrieval progress and outcomes.
	logger *slog.Logger

	// progress, when set, is called once per completed class during
	// property retrieval.
	progress ProgressFunc
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets a custom logger for the collector.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// WithProgress sets the progress callback invoked after each class's
// property fetch completes.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Collector) {
		c.progress = fn
	}
}

// New creates a Collector around the given client.
func New(client TaxonomyClient, opts ...Option) *Collector {
	c := &Collector{client: client}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Collect retrieves the threat class list and, when withProperties is
// true, each class's properties in class order.
//
// A class whose property fetch returned no data is omitted from the
// report's mapping rather than recorded with an empty list, so the
// renderer can tell "no data available" from "empty list retrieved".
// The walk continues through all classes regardless of per-class
// outcomes; only transport faults and context cancellation abort.
func (c *Collector) Collect(ctx context.Context, withProperties bool) (*model.ClassificationReport, error) {
	report := model.NewClassificationReport(c.client.Endpoint())

	c.logger.Info("retrieving threat classes")

	classes, err := c.client.FetchClasses(ctx)
	if err != nil {
		return nil, err
	}
	report.Classes = classes

	c.logger.Info("threat classes returned", "count", len(classes))

	if !withProperties {
		return report, nil
	}

	c.logger.Info("retrieving threat properties for each class")

	total := len(classes)
	for i, class := range classes {
		// Check for cancellation before each remote call so a stuck
		// service does not hold the run past an interrupt.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		props, err := c.client.FetchProperties(ctx, class)
		if err != nil {
			return nil, err
		}

		if len(props) > 0 {
			report.SetProperties(class, props)
		} else {
			c.logger.Debug("no properties returned", "class", string(class))
		}

		if c.progress != nil {
			c.progress(i+1, total)
		}
	}

	return report, nil
}
