package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"plant-shop-api/internal/models"
)

// ReadRows lazily parses CSV text with a header row into column -> value rows.
// Every row carries every header column; cells missing from a short row are empty.
// The sequence reads from r as it is iterated and can be consumed only once.
// A parse error is yielded once and ends the sequence.
func ReadRows(r io.Reader) iter.Seq2[models.ImportRow, error] {
	return func(yield func(models.ImportRow, error) bool) {
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true

		header, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield(nil, fmt.Errorf("failed to read CSV header: %w", err))
			return
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
		header[0] = strings.TrimPrefix(header[0], "\ufeff")

		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("failed to read CSV row: %w", err))
				return
			}

			row := make(models.ImportRow, len(header))
			for i, column := range header {
				row[column] = ""
				if i < len(record) {
					row[column] = record[i]
				}
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}
