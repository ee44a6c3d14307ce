// Package sample holds built-in example documents.
package sample

import "github.com/Iron-Ham/bcnf/internal/schema"

// Travel returns the travel-agency relation: travelers book trips through
// agents and hold passports that expire.
func Travel() *schema.Document {
	return &schema.Document{
		Name: "travel",
		Attributes: []string{
			"traveler ssn", "agent", "years experience",
			"trip id", "start location", "end location",
			"passport number", "expiration date",
		},
		Dependencies: []schema.DependencySpec{
			{LHS: []string{"agent"}, RHS: []string{"years experience"}},
			{LHS: []string{"traveler ssn"}, RHS: []string{"passport number"}},
			{LHS: []string{"passport number"}, RHS: []string{"expiration date"}},
			{LHS: []string{"trip id"}, RHS: []string{"start location", "end location"}},
		},
		Rows: []map[string]string{
			travelRow("111-22-3333", "alice", "12", "T100", "Boston", "Lisbon", "P-1", "2031-04"),
			travelRow("111-22-3333", "bob", "3", "T200", "Lisbon", "Porto", "P-1", "2031-04"),
			travelRow("444-55-6666", "alice", "12", "T200", "Lisbon", "Porto", "P-2", "2029-11"),
			travelRow("777-88-9999", "carol", "7", "T300", "Denver", "Tokyo", "P-3", "2030-01"),
			travelRow("777-88-9999", "alice", "12", "T100", "Boston", "Lisbon", "P-3", "2030-01"),
		},
	}
}

func travelRow(ssn, agent, years, trip, start, end, passport, expires string) map[string]string {
	return map[string]string{
		"traveler ssn":     ssn,
		"agent":            agent,
		"years experience": years,
		"trip id":          trip,
		"start location":   start,
		"end location":     end,
		"passport number":  passport,
		"expiration date":  expires,
	}
}
