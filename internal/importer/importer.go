package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"productdesk/internal/factory"
	"productdesk/internal/validation"
)

// RowError describes a row that failed validation and was skipped.
type RowError struct {
	Line   int
	Errors validation.Errors
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Errors)
}

// Result summarises one import run.
type Result struct {
	Imported int
	Skipped  []RowError
}

// CSVImporter reads product rows (name, price, description) and stores each
// valid row through the same validation used by the product forms.
type CSVImporter struct {
	reader   *csv.Reader
	products factory.Creator
}

func NewCSVImporter(r io.Reader, products factory.Creator) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		products: products,
	}
}

// Run imports every row. Invalid rows are collected in Result.Skipped; a
// storage error stops the run.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return res, errors.New("missing name column")
	}
	if _, ok := index["price"]; !ok {
		return res, errors.New("missing price column")
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		raw := parseRow(record, index)
		if raw == nil {
			continue
		}

		in, err := validation.Product(raw)
		if verrs, ok := validation.AsErrors(err); ok {
			res.Skipped = append(res.Skipped, RowError{Line: line, Errors: verrs})
			continue
		}

		if _, err := i.products.Create(ctx, in); err != nil {
			return res, fmt.Errorf("create product on line %d: %w", line, err)
		}
		res.Imported++
	}

	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// parseRow maps a record onto the product form fields. Blank rows yield nil.
func parseRow(record []string, index map[string]int) map[string]any {
	raw := map[string]any{}
	blank := true
	for _, key := range []string{"name", "price", "description"} {
		pos, ok := index[key]
		if !ok || pos >= len(record) {
			continue
		}
		raw[key] = record[pos]
		if strings.TrimSpace(record[pos]) != "" {
			blank = false
		}
	}
	if blank {
		return nil
	}
	return raw
}
