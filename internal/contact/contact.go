// Package contact defines the normalized contact record produced by the
// mapping pipeline. This package has no UI or transport dependencies.
package contact

// BorrowerStage is the CRM pipeline stage for a contact.
type BorrowerStage string

const (
	StageActiveLead          BorrowerStage = "Active Lead"
	StageBusinessPartnerOnly BorrowerStage = "Business Partner Only"
	StageProspect            BorrowerStage = "Prospect"
	StageClient              BorrowerStage = "Client"
)

// DefaultStage is substituted whenever a source value is absent or invalid.
const DefaultStage = StageProspect

// Stages lists the four valid pipeline stages in display order.
var Stages = []BorrowerStage{
	StageActiveLead,
	StageBusinessPartnerOnly,
	StageProspect,
	StageClient,
}

// ValidateStage returns the input unchanged when it is exactly one of the
// four enumerated stage values, otherwise DefaultStage. The match is
// case-sensitive with no whitespace normalization; "active lead" and
// "Active Lead " both fall back to Prospect.
func ValidateStage(raw string) BorrowerStage {
	for _, s := range Stages {
		if raw == string(s) {
			return s
		}
	}
	return DefaultStage
}

// Record is a normalized contact. Extras holds source columns that no
// mapper recognized, keyed by their original header text.
type Record struct {
	FirstName     string            `json:"firstName"`
	LastName      string            `json:"lastName"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Address       string            `json:"address"`
	City          string            `json:"city"`
	Province      string            `json:"province"`
	PostalCode    string            `json:"postalCode"`
	DateOfBirth   string            `json:"dateOfBirth"`
	BorrowerStage BorrowerStage     `json:"borrowerStage"`
	PartnerType   string            `json:"partnerType"`
	LeadSource    string            `json:"leadSource"`
	Campaign      string            `json:"campaign"`
	Extras        map[string]string `json:"extras,omitempty"`
}

// Columns lists the fixed export columns in record declaration order.
// Extras columns are appended after these at export time.
var Columns = []string{
	"First Name",
	"Last Name",
	"Email",
	"Phone",
	"Address",
	"City",
	"Province",
	"Postal Code",
	"Date of Birth",
	"Borrower Stage",
	"Partner Type",
	"Lead Source",
	"Campaign",
}

// Values returns the fixed-column cell values in the same order as Columns.
func (r Record) Values() []string {
	return []string{
		r.FirstName,
		r.LastName,
		r.Email,
		r.Phone,
		r.Address,
		r.City,
		r.Province,
		r.PostalCode,
		r.DateOfBirth,
		string(r.BorrowerStage),
		r.PartnerType,
		r.LeadSource,
		r.Campaign,
	}
}
