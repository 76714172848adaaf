package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Column names of the catalog relation that the service reads by name.
// All other columns are carried through untouched.
const (
	FieldPartID            = "part_id"
	FieldPartNumber        = "partNumber"
	FieldBrandID           = "BrandID"
	FieldPartTerminologyID = "PartTerminologyID"
)

// CatalogRecord is one row of the dpi_partnumberinfo relation.
type CatalogRecord struct {
	PartID            string `json:"part_id"`
	PartNumber        string `json:"partNumber"`
	BrandID           any    `json:"BrandID,omitempty"`
	PartTerminologyID any    `json:"PartTerminologyID,omitempty"`

	// Fields holds every column exactly as read from the store, including
	// the ones mirrored above.
	Fields map[string]any `json:"-"`
}

// NewCatalogRecord builds a record from a column -> value row.
// Missing or NULL columns leave the corresponding named field empty.
func NewCatalogRecord(row map[string]any) CatalogRecord {
	fields := make(map[string]any, len(row))
	for k, v := range row {
		fields[k] = v
	}

	rec := CatalogRecord{
		BrandID:           fields[FieldBrandID],
		PartTerminologyID: fields[FieldPartTerminologyID],
		Fields:            fields,
	}
	if v, ok := fields[FieldPartID]; ok {
		rec.PartID = scalarString(v)
	}
	if v, ok := fields[FieldPartNumber]; ok {
		rec.PartNumber = scalarString(v)
	}
	return rec
}

// IndexDocument is the search-index form of a CatalogRecord.
type IndexDocument struct {
	// ID is the document identifier in the index. It is the record's own
	// part_id; empty means the index assigns one.
	ID     string
	Source map[string]any
}

// NewIndexDocument maps a catalog record to its index document. Every field
// is carried through unchanged and nothing is validated: malformed records
// surface as index-side rejections.
func NewIndexDocument(rec CatalogRecord) IndexDocument {
	src := make(map[string]any, len(rec.Fields))
	for k, v := range rec.Fields {
		src[k] = v
	}
	return IndexDocument{ID: rec.PartID, Source: src}
}

// NewIndexDocuments maps records 1:1, preserving order.
func NewIndexDocuments(recs []CatalogRecord) []IndexDocument {
	docs := make([]IndexDocument, 0, len(recs))
	for i := range recs {
		docs = append(docs, NewIndexDocument(recs[i]))
	}
	return docs
}

// PartNumber returns the partNumber field when it is present as a string.
func (d IndexDocument) PartNumber() (string, bool) {
	s, ok := d.Source[FieldPartNumber].(string)
	return s, ok
}

// MarshalJSON encodes the document as its flat source map.
func (d IndexDocument) MarshalJSON() ([]byte, error) {
	if d.Source == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.Source)
}

// BulkOutcome is the per-document result of a bulk load.
type BulkOutcome struct {
	Position   int    `json:"position"`
	DocumentID string `json:"document_id,omitempty"`
	Status     int    `json:"status"`
	Accepted   bool   `json:"accepted"`
	Reason     string `json:"reason,omitempty"`
}

// NewBulkOutcome classifies an item status: anything >= 400 is a rejection.
func NewBulkOutcome(position int, id string, status int, reason string) BulkOutcome {
	o := BulkOutcome{Position: position, DocumentID: id, Status: status, Accepted: status < 400}
	if !o.Accepted {
		o.Reason = reason
	}
	return o
}

// BulkReport summarizes one synchronization run.
type BulkReport struct {
	RunID      string        `json:"run_id"`
	Total      int           `json:"total"`
	Accepted   int           `json:"accepted"`
	Rejected   int           `json:"rejected"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Outcomes   []BulkOutcome `json:"-"`
}

// SuggestionEntry is the projection returned for a matching part number.
// PartID keeps the JSON type it was indexed with.
type SuggestionEntry struct {
	PartNumber string `json:"partNumber"`
	PartID     any    `json:"part_id"`
}

// NewSuggestionEntry projects an indexed source document.
func NewSuggestionEntry(source map[string]any) SuggestionEntry {
	e := SuggestionEntry{PartID: source[FieldPartID]}
	if v, ok := source[FieldPartNumber]; ok {
		e.PartNumber = scalarString(v)
	}
	return e
}

// ProductDetail is the denormalized product view.
type ProductDetail struct {
	PartNumber          string `json:"partNumber"`
	FileName            string `json:"fileName"`
	BrandName           string `json:"BrandName"`
	PartTerminologyName string `json:"PartTerminologyName"`
	CategoryName        string `json:"categoryName"`
	SubCategoryName     string `json:"SubCategoryName"`
}

// scalarString renders an identifier-like scalar as text.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int:
		return strconv.Itoa(t)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case pgtype.Numeric:
		return numericString(t)
	case [16]byte:
		return uuid.UUID(t).String()
	case pgtype.UUID:
		if !t.Valid {
			return ""
		}
		return uuid.UUID(t.Bytes).String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// numericString renders a NUMERIC in plain decimal notation, keeping its scale.
func numericString(n pgtype.Numeric) string {
	switch {
	case !n.Valid:
		return ""
	case n.NaN:
		return "NaN"
	case n.InfinityModifier == pgtype.Infinity:
		return "Infinity"
	case n.InfinityModifier == pgtype.NegativeInfinity:
		return "-Infinity"
	case n.Int == nil:
		return "0"
	}

	digits := n.Int.String()
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	switch exp := int(n.Exp); {
	case exp > 0:
		digits += strings.Repeat("0", exp)
	case exp < 0:
		scale := -exp
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		point := len(digits) - scale
		digits = digits[:point] + "." + digits[point:]
	}
	return sign + digits
}
