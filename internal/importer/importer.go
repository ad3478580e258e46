package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/money"
)

type BookWriter interface {
	Upsert(ctx context.Context, b domain.Book) (*domain.Book, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates books. Matching
// is by title and author, so re-running an import refreshes prices and
// stock instead of duplicating rows.
type CSVImporter struct {
	reader   *csv.Reader
	bookRepo BookWriter
}

func NewCSVImporter(r io.Reader, repo BookWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		bookRepo: repo,
	}
}

// Run parses CSV rows and upserts books. It returns the number imported;
// a bad row stops the run and reports its line.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		b, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if b == nil {
			continue
		}

		if _, err := i.bookRepo.Upsert(ctx, *b); err != nil {
			return imported, fmt.Errorf("upsert book %q: %w", b.Title, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Book, error) {
	title := pick(record, index, "title")
	author := pick(record, index, "author")
	if title == "" && author == "" {
		// Blank separator rows are tolerated.
		return nil, nil
	}
	if title == "" || author == "" {
		return nil, fmt.Errorf("both title and author are required")
	}

	price, err := money.ParseAmount(pick(record, index, "price"))
	if err != nil {
		return nil, fmt.Errorf("book %q: %w", title, err)
	}

	stock := 0
	if s := pick(record, index, "stock_quantity"); s != "" {
		stock, err = strconv.Atoi(s)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("book %q: invalid stock quantity %q", title, s)
		}
	}

	return &domain.Book{
		Title:         title,
		Author:        author,
		Genre:         pick(record, index, "genre"),
		Price:         price,
		StockQuantity: stock,
		ImageURL:      pick(record, index, "image_url"),
		Description:   pick(record, index, "description"),
	}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
