package mapping

import (
	"testing"

	"github.com/contactsheet/formatter/internal/contact"
	"github.com/contactsheet/formatter/internal/sheet"
)

func mustProfile(t *testing.T, key string) Profile {
	t.Helper()
	p, ok := Get(key)
	if !ok {
		t.Fatalf("profile %q not registered", key)
	}
	return p
}

func TestMapRow_FullSheet(t *testing.T) {
	headers := []string{
		"First Name", "Last Name", "Email", "Home Phone",
		"Address", "City", "Province", "Postal Code",
		"Date of Birth", "Borrower Stage", "Partner Type", "Lead Source", "Campaign",
		"Fax Number",
	}
	row := sheet.Row{
		"First Name":     "Jane",
		"Last Name":      "Doe",
		"Email":          "jane@example.com",
		"Home Phone":     "555-0100",
		"Address":        "123 Main St",
		"City":           "Springfield",
		"Province":       "ON",
		"Postal Code":    "A1B2C3",
		"Date of Birth":  "1990-05-14",
		"Borrower Stage": "Client",
		"Partner Type":   "Realtor",
		"Lead Source":    "Referral",
		"Campaign":       "Spring 2025",
		"Fax Number":     "555-0199",
	}

	rec := New(mustProfile(t, "standard")).MapRow(headers, row)

	if rec.FirstName != "Jane" || rec.LastName != "Doe" {
		t.Errorf("name = (%q, %q), want (Jane, Doe)", rec.FirstName, rec.LastName)
	}
	if rec.Email != "jane@example.com" {
		t.Errorf("Email = %q", rec.Email)
	}
	if rec.Phone != "555-0100" {
		t.Errorf("Phone = %q", rec.Phone)
	}
	if rec.Address != "123 Main St" || rec.City != "Springfield" || rec.Province != "ON" || rec.PostalCode != "A1B2C3" {
		t.Errorf("address = (%q, %q, %q, %q)", rec.Address, rec.City, rec.Province, rec.PostalCode)
	}
	if rec.DateOfBirth != "1990-05-14" {
		t.Errorf("DateOfBirth = %q, want 1990-05-14", rec.DateOfBirth)
	}
	if rec.BorrowerStage != contact.StageClient {
		t.Errorf("BorrowerStage = %q, want Client", rec.BorrowerStage)
	}
	if rec.PartnerType != "Realtor" || rec.LeadSource != "Referral" || rec.Campaign != "Spring 2025" {
		t.Errorf("crm fields = (%q, %q, %q)", rec.PartnerType, rec.LeadSource, rec.Campaign)
	}

	// Fax is not a known field: it must survive verbatim under its header.
	if got := rec.Extras["Fax Number"]; got != "555-0199" {
		t.Errorf("Extras[Fax Number] = %q, want 555-0199", got)
	}
	if len(rec.Extras) != 1 {
		t.Errorf("Extras = %v, want exactly the fax column", rec.Extras)
	}
}

func TestMapRow_FullNameSplit(t *testing.T) {
	headers := []string{"Name", "Email"}

	tests := []struct {
		name      string
		fullName  string
		wantFirst string
		wantLast  string
	}{
		{name: "two tokens", fullName: "Jane Doe", wantFirst: "Jane", wantLast: "Doe"},
		{name: "single token all first name", fullName: "Madonna", wantFirst: "Madonna", wantLast: ""},
	}

	m := New(mustProfile(t, "standard"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := m.MapRow(headers, sheet.Row{"Name": tt.fullName, "Email": "x@example.com"})
			if rec.FirstName != tt.wantFirst || rec.LastName != tt.wantLast {
				t.Errorf("name = (%q, %q), want (%q, %q)", rec.FirstName, rec.LastName, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestMapRow_SeparateNameColumnsResplit(t *testing.T) {
	headers := []string{"First Name", "Last Name"}
	rec := New(mustProfile(t, "standard")).MapRow(headers, sheet.Row{
		"First Name": "Mary Ann",
		"Last Name":  "Smith",
	})

	// Concatenate-then-resplit: the remainder after the first token is all
	// last name, a documented quirk of the heuristic.
	if rec.FirstName != "Mary" || rec.LastName != "Ann Smith" {
		t.Errorf("name = (%q, %q), want (Mary, Ann Smith)", rec.FirstName, rec.LastName)
	}
}

func TestMapRow_CombinedAddressDecomposed(t *testing.T) {
	headers := []string{"Name", "Mailing Address"}
	rec := New(mustProfile(t, "standard")).MapRow(headers, sheet.Row{
		"Name":            "Jane Doe",
		"Mailing Address": "123 Main St, Springfield, ON, A1B2C3",
	})

	if rec.Address != "123 Main St" {
		t.Errorf("Address = %q, want 123 Main St", rec.Address)
	}
	if rec.City != "Springfield" || rec.Province != "ON" || rec.PostalCode != "A1B2C3" {
		t.Errorf("decomposed = (%q, %q, %q)", rec.City, rec.Province, rec.PostalCode)
	}
}

func TestMapRow_DedicatedAddressColumnsNotDecomposed(t *testing.T) {
	headers := []string{"Street Address", "City", "State", "Zip"}
	rec := New(mustProfile(t, "standard")).MapRow(headers, sheet.Row{
		"Street Address": "123 Main St, Apt 4",
		"City":           "Springfield",
		"State":          "IL",
		"Zip":            "62701",
	})

	// With dedicated columns present, the street keeps its commas.
	if rec.Address != "123 Main St, Apt 4" {
		t.Errorf("Address = %q, want untouched street", rec.Address)
	}
	if rec.City != "Springfield" || rec.Province != "IL" || rec.PostalCode != "62701" {
		t.Errorf("fields = (%q, %q, %q)", rec.City, rec.Province, rec.PostalCode)
	}
}

func TestMapRow_DateOfBirthPassthrough(t *testing.T) {
	headers := []string{"Name", "DOB"}
	m := New(mustProfile(t, "standard"))

	rec := m.MapRow(headers, sheet.Row{"Name": "Jane Doe", "DOB": "1990-05-14"})
	if rec.DateOfBirth != "1990-05-14" {
		t.Errorf("DateOfBirth = %q, want 1990-05-14", rec.DateOfBirth)
	}

	rec = m.MapRow(headers, sheet.Row{"Name": "Jane Doe", "DOB": "not a date"})
	if rec.DateOfBirth != "not a date" {
		t.Errorf("DateOfBirth = %q, want raw passthrough", rec.DateOfBirth)
	}
}

func TestMapRow_StageAlwaysEnumerated(t *testing.T) {
	headers := []string{"Name", "Borrower Stage"}
	m := New(mustProfile(t, "standard"))

	for _, raw := range []string{"Client", "Active Lead", "client", "HOT", "", "Prospect "} {
		rec := m.MapRow(headers, sheet.Row{"Name": "X", "Borrower Stage": raw})
		valid := false
		for _, s := range contact.Stages {
			if rec.BorrowerStage == s {
				valid = true
			}
		}
		if !valid {
			t.Errorf("BorrowerStage for %q = %q, not one of the four stages", raw, rec.BorrowerStage)
		}
	}

	rec := m.MapRow(headers, sheet.Row{"Name": "X", "Borrower Stage": "client"})
	if rec.BorrowerStage != contact.StageProspect {
		t.Errorf("lowercase stage = %q, want default Prospect", rec.BorrowerStage)
	}
}

func TestMapAll_RowCountPreserved(t *testing.T) {
	data := &sheet.Data{
		Headers: []string{"Name", "Email"},
		Rows: []sheet.Row{
			{"Name": "Jane Doe", "Email": "jane@example.com"},
			{"Name": "", "Email": ""}, // entirely empty row still maps
			{"Name": "Madonna"},
		},
	}

	records := New(mustProfile(t, "standard")).MapAll(data)
	if len(records) != len(data.Rows) {
		t.Fatalf("MapAll() produced %d records for %d rows", len(records), len(data.Rows))
	}
	if records[1].BorrowerStage != contact.StageProspect {
		t.Errorf("empty row stage = %q, want default Prospect", records[1].BorrowerStage)
	}
}

func TestMapRow_ExtrasStrictness(t *testing.T) {
	headers := []string{"Name", "Notes", "Branch"}
	row := sheet.Row{"Name": "Jane Doe", "Notes": "  ", "Branch": "North"}

	permissive := New(mustProfile(t, "standard")).MapRow(headers, row)
	if got, ok := permissive.Extras["Notes"]; !ok || got != "  " {
		t.Errorf("permissive Extras[Notes] = (%q, %v), want verbatim blank kept", got, ok)
	}
	if permissive.Extras["Branch"] != "North" {
		t.Errorf("permissive Extras[Branch] = %q", permissive.Extras["Branch"])
	}

	strict := New(mustProfile(t, "strict")).MapRow(headers, row)
	if _, ok := strict.Extras["Notes"]; ok {
		t.Error("strict profile kept a blank unmapped cell")
	}
	if strict.Extras["Branch"] != "North" {
		t.Errorf("strict Extras[Branch] = %q", strict.Extras["Branch"])
	}
}

func TestMapRow_RegisteredProfile(t *testing.T) {
	headers := []string{"Customer", "Email", "Date Registered"}
	rec := New(mustProfile(t, "registered")).MapRow(headers, sheet.Row{
		"Customer":        "Jane Doe",
		"Email":           "jane@example.com",
		"Date Registered": "5/14/2019",
	})

	// No name header resolves, so the first column is used positionally.
	if rec.FirstName != "Jane" || rec.LastName != "Doe" {
		t.Errorf("name = (%q, %q), want positional first-column split", rec.FirstName, rec.LastName)
	}
	// Date Registered stands in for the date-of-birth concept.
	if rec.DateOfBirth != "2019-05-14" {
		t.Errorf("DateOfBirth = %q, want 2019-05-14", rec.DateOfBirth)
	}
}

func TestProfileRegistry(t *testing.T) {
	for _, key := range []string{"standard", "strict", "registered"} {
		if _, ok := Get(key); !ok {
			t.Errorf("built-in profile %q not registered", key)
		}
	}

	keys := Keys()
	if len(keys) != Count() {
		t.Errorf("Keys() length %d != Count() %d", len(keys), Count())
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Errorf("Keys() not sorted: %v", keys)
		}
	}
}
