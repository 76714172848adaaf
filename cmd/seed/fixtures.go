package main

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

type brand struct {
	id   string
	name string
}

type terminology struct {
	id          int
	name        string
	prefix      string
	categoryID  int
	subcategory int
}

type category struct {
	id   int
	name string
}

var (
	brands = []brand{
		{"BKDT", "Brakeway"},
		{"FLTR", "Filtronic"},
		{"SPRK", "Sparkline"},
	}
	categories = []category{
		{1, "Brakes"},
		{2, "Filters"},
		{3, "Ignition"},
	}
	subcategories = []category{
		{10, "Brake Pads"},
		{11, "Rotors"},
		{20, "Oil Filters"},
		{30, "Spark Plugs"},
	}
	terminologies = []terminology{
		{1684, "Disc Brake Pad Set", "BRK", 1, 10},
		{1896, "Disc Brake Rotor", "ROT", 1, 11},
		{5340, "Engine Oil Filter", "OFL", 2, 20},
		{7212, "Spark Plug", "SPK", 3, 30},
	}
)

// part is one generated dpi_partnumberinfo row.
type part struct {
	id            int
	partNumber    string
	brandID       string
	terminologyID int
	fileName      string
}

// generateParts returns n deterministic parts cycling through the lookup data.
func generateParts(n int) []part {
	parts := make([]part, 0, n)
	for i := 0; i < n; i++ {
		t := terminologies[i%len(terminologies)]
		b := brands[i%len(brands)]
		id := i + 1
		pn := fmt.Sprintf("%s-%04d", t.prefix, 1000+id)
		parts = append(parts, part{
			id:            id,
			partNumber:    pn,
			brandID:       b.id,
			terminologyID: t.id,
			fileName:      fmt.Sprintf("%s.jpg", pn),
		})
	}
	return parts
}

// seedBatch queues idempotent inserts for the lookup tables and parts.
func seedBatch(parts []part) *pgx.Batch {
	b := &pgx.Batch{}
	for _, br := range brands {
		b.Queue(`INSERT INTO vcdb_brands ("BrandID", "BrandName") VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			br.id, br.name)
	}
	for _, c := range categories {
		b.Queue(`INSERT INTO dpi_categories ("categoryID", "categoryName") VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			c.id, c.name)
	}
	for _, s := range subcategories {
		b.Queue(`INSERT INTO dpi_subcategories ("subcategoryID", "SubCategoryName") VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			s.id, s.name)
	}
	for _, t := range terminologies {
		b.Queue(`INSERT INTO vcdb_parts ("PartTerminologyID", "PartTerminologyName") VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			t.id, t.name)
		b.Queue(`INSERT INTO "dpi_categoryMapping" ("PartTerminologyID", "categoryID", "subcategoryID") VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			t.id, t.categoryID, t.subcategory)
	}
	for _, p := range parts {
		b.Queue(`INSERT INTO dpi_partnumberinfo (part_id, "partNumber", "BrandID", "PartTerminologyID") VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			p.id, p.partNumber, p.brandID, p.terminologyID)
		b.Queue(`INSERT INTO dpi_image_mapper (part_id, "fileName") VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			p.id, p.fileName)
	}
	return b
}
