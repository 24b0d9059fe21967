// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/tomtom215/pantryrank/internal/models"
)

// Supported source encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingISO88591    = "iso-8859-1"
)

var requiredColumns = []string{"name", "brand", "category_id", "supermarket", "image_url", "rating"}

var optionalColumns = []string{"sweetness", "saltiness", "smell", "effectiveness"}

// decode wraps r so it yields UTF-8.
func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingUTF8, "utf8":
		return stripBOM(r), nil
	case EncodingWindows1252, "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case EncodingISO88591, "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(3); err == nil && bytes.Equal(head, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	return br
}

// Row is one parsed CSV record.
type Row struct {
	Line  int
	Input models.NewProductInput
}

// Delta returns the row as a rating submission for an existing product.
func (r *Row) Delta() models.RatingDelta {
	return models.RatingDelta{
		Rating:        r.Input.Rating,
		Sweetness:     r.Input.Sweetness,
		Saltiness:     r.Input.Saltiness,
		Smell:         r.Input.Smell,
		Effectiveness: r.Input.Effectiveness,
		Supermarket:   r.Input.Supermarket,
	}
}

// rowReader parses catalog rows from CSV.
type rowReader struct {
	csv     *csv.Reader
	columns map[string]int
}

func newRowReader(r io.Reader, encoding string) (*rowReader, error) {
	decoded, err := decode(r, encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("header is missing columns: %s", strings.Join(missing, ", "))
	}

	return &rowReader{csv: cr, columns: columns}, nil
}

// next returns the next row. A parse failure of one record is returned as a
// RowError so the caller can continue; io.EOF ends the input.
func (rr *rowReader) next() (*Row, error) {
	record, err := rr.csv.Read()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, RowError{Line: perr.StartLine, Err: perr.Err}
		}
		return nil, err
	}
	line, _ := rr.csv.FieldPos(0)

	row := &Row{Line: line}
	get := func(col string) string {
		i, ok := rr.columns[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	in := &row.Input
	in.Name = get("name")
	in.Brand = get("brand")
	in.Supermarket = get("supermarket")
	in.ImageURL = get("image_url")

	if in.CategoryID, err = strconv.Atoi(get("category_id")); err != nil {
		return nil, RowError{Line: line, Err: fmt.Errorf("category_id %q is not a number", get("category_id"))}
	}
	rating, err := parseScore(get("rating"))
	if err != nil {
		return nil, RowError{Line: line, Err: fmt.Errorf("rating: %w", err)}
	}
	in.Rating = models.Score(rating)

	subs := []**float64{&in.Sweetness, &in.Saltiness, &in.Smell, &in.Effectiveness}
	for i, col := range optionalColumns {
		v := get(col)
		if v == "" {
			continue
		}
		score, err := parseScore(v)
		if err != nil {
			return nil, RowError{Line: line, Err: fmt.Errorf("%s: %w", col, err)}
		}
		*subs[i] = models.Score(score)
	}
	return row, nil
}

// parseScore accepts a decimal point or a decimal comma.
func parseScore(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("value is required")
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}
