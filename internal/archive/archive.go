// Package archive stores gzipped JSON recovery reports.
package archive

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"storefront/internal/model"
)

// Writer stores a report under key and returns where it ended up.
type Writer interface {
	Write(ctx context.Context, key string, report any) (string, error)
}

// ReportKey is the archive key of a subscription failure report.
func ReportKey(failure *model.SubscriptionFailure) string {
	return fmt.Sprintf("subscription-failures/%s/%s-%s.json.gz",
		failure.CreatedAt.UTC().Format("2006/01/02"),
		failure.OrderID,
		failure.ID.String(),
	)
}

// encode writes report to w as gzipped JSON.
func encode(w io.Writer, report any) error {
	gz := gzip.NewWriter(w)
	enc := json.NewEncoder(gz)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to flush gzip stream: %w", err)
	}
	return nil
}

// Decode reads a gzipped JSON report from r into out.
func Decode(r io.Reader, out any) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	if err := json.NewDecoder(gz).Decode(out); err != nil {
		return fmt.Errorf("failed to decode report: %w", err)
	}
	return nil
}
