// Package mapping guesses which source columns feed which contact fields.
//
// The matcher is deliberately loose: headers are matched by case-insensitive
// substring, so "Home Phone Number" matches the phone keyword and so does
// "Phone Extension". That over-matching is inherent to the heuristic and is
// kept rather than papered over; profiles exist to tune the rest of the
// behavior (see profile.go).
package mapping

import (
	"strings"

	"github.com/contactsheet/formatter/internal/sheet"
)

// Field names a target contact field a rule can resolve.
type Field string

const (
	FieldFirstName   Field = "first_name"
	FieldLastName    Field = "last_name"
	FieldFullName    Field = "full_name"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldAddress     Field = "address"
	FieldCity        Field = "city"
	FieldProvince    Field = "province"
	FieldPostalCode  Field = "postal_code"
	FieldDateOfBirth Field = "date_of_birth"
	FieldStage       Field = "borrower_stage"
	FieldPartnerType Field = "partner_type"
	FieldLeadSource  Field = "lead_source"
	FieldCampaign    Field = "campaign"
)

// FieldRule resolves one target field from a row. Strategies are evaluated
// top-down: exact header match, then keyword substring match, then a
// positional fallback. Headers are always scanned in source column order,
// so when several headers match the first one in the sheet wins.
type FieldRule struct {
	Field    Field
	Exact    []string // case-insensitive whole-header matches
	Keywords []string // case-insensitive substring matches
	Position int      // column index fallback; -1 disables
}

// Resolve returns the header that matched, its cell value, and whether any
// strategy matched. The value may be empty even when ok is true: a
// recognized column with a blank cell is still recognized.
func (fr FieldRule) Resolve(headers []string, row sheet.Row) (header, value string, ok bool) {
	for _, exact := range fr.Exact {
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), exact) {
				return h, row.Get(h), true
			}
		}
	}

	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, kw := range fr.Keywords {
			if strings.Contains(lower, kw) {
				return h, row.Get(h), true
			}
		}
	}

	if fr.Position >= 0 && fr.Position < len(headers) {
		h := headers[fr.Position]
		return h, row.Get(h), true
	}

	return "", "", false
}
