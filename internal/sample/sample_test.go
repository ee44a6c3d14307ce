package sample

import (
	"context"
	"testing"

	"github.com/Iron-Ham/bcnf/internal/normalize"
	"github.com/Iron-Ham/bcnf/internal/schema"
	"github.com/Iron-Ham/bcnf/internal/verify"
)

func TestTravel_Valid(t *testing.T) {
	doc := Travel()
	if err := doc.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(doc.Attributes) != 8 || len(doc.Dependencies) != 4 {
		t.Errorf("got %d attributes and %d dependencies, want 8 and 4", len(doc.Attributes), len(doc.Dependencies))
	}
}

func TestTravel_ReturnsFreshDocument(t *testing.T) {
	a := Travel()
	a.Attributes[0] = "changed"
	if Travel().Attributes[0] != "traveler ssn" {
		t.Error("Travel() should not share state between calls")
	}
}

func TestTravel_RoundTrip(t *testing.T) {
	data, err := Travel().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	doc, err := schema.ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if doc.Name != "travel" || len(doc.Rows) != 5 {
		t.Errorf("round trip = %+v", doc)
	}
}

func TestTravel_RowsAreLossless(t *testing.T) {
	doc := Travel()
	parts, err := normalize.Decompose([]schema.Relation{doc.Relation()}, doc.FDs())
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}

	v, err := verify.Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = v.Close() }()

	report, err := v.Check(context.Background(), doc.Relation(), parts, doc.FDs(), verify.RowsFromMaps(doc.Rows))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if err := report.Err(); err != nil {
		t.Errorf("sample rows should verify cleanly: %v (%+v)", err, report)
	}
}
