package export

import (
	"context"
	"fmt"

	"github.com/fxping/ratehub/internal/domain"
	"github.com/fxping/ratehub/internal/table"
)

// SheetWriter writes the export table to a spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, rows [][]string) error
}

// SnapshotSource provides the latest rate snapshot.
type SnapshotSource interface {
	Latest() (*domain.RateSnapshot, error)
}

// Publisher derives the table for a fixed view from the latest snapshot and hands it to a
// SheetWriter. Implements worker.AfterRefreshHook.
type Publisher struct {
	source  SnapshotSource
	catalog table.Catalog
	view    domain.ViewState
	writer  SheetWriter
}

// NewPublisher creates a Publisher for the given view.
func NewPublisher(source SnapshotSource, catalog table.Catalog, view domain.ViewState, writer SheetWriter) *Publisher {
	return &Publisher{
		source:  source,
		catalog: catalog,
		view:    view,
		writer:  writer,
	}
}

// Publish writes the current table.
func (p *Publisher) Publish(ctx context.Context) error {
	snap, err := p.source.Latest()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	t := table.Derive(snap, p.view, p.catalog)
	if err := p.writer.Write(ctx, t.Export()); err != nil {
		return fmt.Errorf("publishing table: %w", err)
	}
	return nil
}
