package syncer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"stockdash/infrastructure/csvcodec"
)

// ImportReport summarizes one bulk import.
type ImportReport struct {
	BatchID   string
	Submitted int
	Created   int
	Failed    int
	Headers   int
	Rejected  []csvcodec.RowError
}

// BulkImport decodes CSV text and creates one item per well-formed row, one
// request at a time and in file order. Rejected rows and failed creates are
// counted and skipped; the snapshot is reloaded once at the end.
func (c *Controller) BulkImport(ctx context.Context, text string) ImportReport {
	decoded := csvcodec.Decode(text)
	report := ImportReport{
		BatchID:  uuid.NewString(),
		Headers:  decoded.Headers,
		Rejected: decoded.Rejected,
	}
	log := c.log.With(slog.String("batch_id", report.BatchID))

	for _, rej := range decoded.Rejected {
		log.Warn("skipping malformed csv row", slog.Int("line", rej.Line), slog.Any("err", rej.Reason))
	}

	for _, d := range decoded.Drafts {
		report.Submitted++
		if err := c.remote.CreateItem(ctx, d); err != nil {
			report.Failed++
			log.Error("bulk import create failed", slog.String("name", d.Name), slog.Any("err", err))
			continue
		}
		report.Created++
	}

	c.reload(ctx)
	log.Info("bulk import finished",
		slog.Int("submitted", report.Submitted),
		slog.Int("created", report.Created),
		slog.Int("failed", report.Failed),
		slog.Int("rejected", len(report.Rejected)),
	)
	return report
}
