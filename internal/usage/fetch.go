package usage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"planhat-usage-sync/internal/model"
	"planhat-usage-sync/internal/storage/blob"
	"planhat-usage-sync/pkg/utils"
)

// FetchDaily locates and parses the billing CSV for one date. It lists
// the bucket, takes the first object whose key contains dateStr and ends
// in ".csv" (provider listing order, first match wins) and parses it in
// memory. A missing file is not an error: it returns (nil, nil) and the
// caller decides that the run has no data for the day.
func FetchDaily(ctx context.Context, store blob.Store, dateStr string) (*model.UsageTable, error) {
	log.Printf("📦 Scanning bucket for files with date %s", dateStr)

	keys, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bucket: %w", err)
	}

	for _, key := range keys {
		if !strings.Contains(key, dateStr) || !strings.HasSuffix(key, ".csv") {
			continue
		}
		log.Printf("📦 Found file: %s", key)

		body, err := store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", key, err)
		}
		defer body.Close()

		table, err := parseCSV(body, key)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		log.Printf("📦 File processed in memory: %d records from %s", len(table.Rows), key)
		return table, nil
	}

	log.Printf("⚠️ No file found for the date: %s", dateStr)
	return nil, nil
}

// parseCSV reads comma-separated content with a header row into a
// UsageTable. Header names are trimmed and stripped of quotes; cell
// values are coerced to int, float or string.
func parseCSV(r io.Reader, sourceKey string) (*model.UsageTable, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true

	rawHeaders, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		// Clean header names: trim whitespace and remove ALL quotes
		clean := strings.TrimSpace(h)
		clean = strings.ReplaceAll(clean, `"`, "")
		headers[i] = clean
	}

	table := &model.UsageTable{Headers: headers, SourceKey: sourceKey}
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			return table, nil
		} else if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}

		row := make(model.UsageRow, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = utils.ParseValue(record[i])
			}
		}
		table.Rows = append(table.Rows, row)
	}
}
