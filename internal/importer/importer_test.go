// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/models"
)

func newTestImporter(t *testing.T, opts Options) (*Importer, *catalog.Service) {
	t.Helper()
	svc := catalog.NewService(catalog.NewMemoryStore(), catalog.DefaultOptions())
	t.Cleanup(svc.Close)
	if opts.CreatorUserID == "" {
		opts.CreatorUserID = "importer"
	}
	return New(svc, opts), svc
}

const header = "name,brand,category_id,supermarket,image_url,rating,sweetness,saltiness,smell,effectiveness\n"

func TestImportCreatesRows(t *testing.T) {
	t.Parallel()

	imp, svc := newTestImporter(t, Options{})
	input := header +
		"Leche Entera,Hacendado,1,Mercadona,/img/1,7,6,,,\n" +
		"Zumo de Naranja,Don Simón,2,Lidl,/img/2,\"8,5\",9,5,5,5\n"

	stats, err := imp.Import(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Created != 2 || stats.Failed != 0 || stats.Processed != 2 {
		t.Fatalf("stats = %+v", stats)
	}

	all, err := svc.ListAll(context.Background(), svc.Page(0, 0))
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("catalog has %d products", len(all))
	}
	if all[0].Sweetness != 6 || all[0].Saltiness != models.DefaultSubAttribute {
		t.Errorf("sub-attributes = %+v", all[0].Aggregate)
	}
	if all[1].Rating != 8.5 || all[1].CreatorUserID != "importer" {
		t.Errorf("second product = %+v", all[1])
	}
}

func TestImportReportsRowFailures(t *testing.T) {
	t.Parallel()

	imp, _ := newTestImporter(t, Options{})
	input := header +
		"Leche,Hacendado,1,Mercadona,/img/1,7,,,,\n" + // line 2 ok
		"Pan,Bimbo,abc,Mercadona,/img/2,7,,,,\n" + // line 3 bad category
		"Queso,García Baquero,1,Mercadona,/img/3,11,,,,\n" + // line 4 rating out of range
		"Agua,Font Vella,3,Tienda Inventada,/img/4,5,,,,\n" + // line 5 unknown supermarket
		"Yogur,Danone,1,Carrefour,/img/5,x,,,,\n" // line 6 bad rating

	stats, err := imp.Import(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Created != 1 || stats.Failed != 4 {
		t.Fatalf("stats = %+v", stats)
	}

	wantLines := []int{3, 4, 5, 6}
	for i, line := range wantLines {
		if stats.Errors[i].Line != line {
			t.Errorf("error %d at line %d, want %d (%v)", i, stats.Errors[i].Line, line, stats.Errors[i])
		}
	}
	var verr *catalog.ValidationError
	if !errors.As(stats.Errors[1].Err, &verr) {
		t.Errorf("out of range rating should be a validation error, got %v", stats.Errors[1].Err)
	}
}

func TestImportMergeExact(t *testing.T) {
	t.Parallel()

	imp, svc := newTestImporter(t, Options{MergeExact: true})
	input := header +
		"Leche Entera,Hacendado,1,Mercadona,/img/1,6,,,,\n" +
		"LECHE ENTERA,hacendado,1,Lidl,/img/1,10,,,,\n" + // same identity after folding
		"Leche Entera,Pascual,1,Mercadona,/img/2,4,,,,\n" + // different brand
		"Leche Entera Sin Lactosa,Hacendado,1,Mercadona,/img/3,5,,,,\n" // substring, not exact

	stats, err := imp.Import(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Created != 3 || stats.Merged != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	p, err := svc.GetProduct(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.ReviewCount != 2 || p.Rating != 8 || p.Supermarket != "Lidl" {
		t.Errorf("merged product = %+v", p)
	}
}

func TestImportMergeExactAmbiguousCreates(t *testing.T) {
	t.Parallel()

	imp, svc := newTestImporter(t, Options{})
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := imp.Import(ctx, strings.NewReader(header+"Café,Marcilla,2,Mercadona,/img/1,6,,,,\n")); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	merging := New(svc, Options{CreatorUserID: "importer", MergeExact: true})
	stats, err := merging.Import(ctx, strings.NewReader(header+"café,marcilla,2,Mercadona,/img/1,6,,,,\n"))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Created != 1 || stats.Merged != 0 {
		t.Errorf("two exact candidates must not be merged automatically: %+v", stats)
	}
}

func TestImportWindows1252(t *testing.T) {
	t.Parallel()

	imp, svc := newTestImporter(t, Options{Encoding: EncodingWindows1252})
	input := header + "Caf\xe9 Molido,Marcilla,2,El Corte Ingl\xe9s,/img/1,7,,,,\n"

	stats, err := imp.Import(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Created != 1 {
		t.Fatalf("stats = %+v, errors %v", stats, stats.Errors)
	}
	p, err := svc.GetProduct(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.Name != "Café Molido" || p.Supermarket != "El Corte Inglés" {
		t.Errorf("decoded product = %q at %q", p.Name, p.Supermarket)
	}
}

func TestImportUTF8BOM(t *testing.T) {
	t.Parallel()

	imp, _ := newTestImporter(t, Options{})
	input := "\xEF\xBB\xBF" + header + "Leche,Hacendado,1,Mercadona,/img/1,7,,,,\n"
	stats, err := imp.Import(context.Background(), strings.NewReader(input))
	if err != nil || stats.Created != 1 {
		t.Errorf("stats = %+v, err %v", stats, err)
	}
}

func TestImportBadInput(t *testing.T) {
	t.Parallel()

	imp, _ := newTestImporter(t, Options{})
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing columns", "name,brand\nLeche,Hacendado\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := imp.Import(context.Background(), strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}

	bad, _ := newTestImporter(t, Options{Encoding: "ebcdic"})
	if _, err := bad.Import(context.Background(), strings.NewReader(header)); err == nil {
		t.Error("unknown encoding should fail")
	}
}

func TestImportHonorsCancellation(t *testing.T) {
	t.Parallel()

	imp, _ := newTestImporter(t, Options{RowsPerSecond: 0.001, Burst: 1})
	input := header +
		"Leche,Hacendado,1,Mercadona,/img/1,7,,,,\n" +
		"Pan de Molde,Bimbo,1,Mercadona,/img/2,7,,,,\n"

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	stats, err := imp.Import(ctx, strings.NewReader(input))
	if err == nil {
		t.Fatal("expected the limiter wait to fail")
	}
	if stats.Created != 1 {
		t.Errorf("first row should use the burst token, stats = %+v", stats)
	}
}

func TestParseScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"7", 7, false},
		{"7.5", 7.5, false},
		{"7,5", 7.5, false},
		{"", 0, true},
		{"siete", 0, true},
	}
	for _, tt := range tests {
		got, err := parseScore(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseScore(%q) = %v, %v", tt.in, got, err)
		}
	}
}
