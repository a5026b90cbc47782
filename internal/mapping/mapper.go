package mapping

import (
	"strings"

	"github.com/contactsheet/formatter/internal/contact"
	"github.com/contactsheet/formatter/internal/sheet"
)

// Mapper maps raw sheet rows onto contact records under one Profile.
type Mapper struct {
	profile Profile
}

// New creates a Mapper for the given profile.
func New(profile Profile) *Mapper {
	return &Mapper{profile: profile}
}

// MapAll maps every row of a sheet. Row count is preserved: each input row
// produces exactly one record, including rows the heuristic recognizes
// nothing in.
func (m *Mapper) MapAll(data *sheet.Data) []contact.Record {
	records := make([]contact.Record, len(data.Rows))
	for i, row := range data.Rows {
		records[i] = m.MapRow(data.Headers, row)
	}
	return records
}

// MapRow maps a single row. Headers claimed by any field rule are consumed;
// the rest pass through verbatim into the record's Extras.
func (m *Mapper) MapRow(headers []string, row sheet.Row) contact.Record {
	used := make(map[string]bool, len(headers))

	resolve := func(field Field) (string, bool) {
		rule, ok := m.profile.Rule(field)
		if !ok {
			return "", false
		}
		header, value, ok := rule.Resolve(headers, row)
		if !ok {
			return "", false
		}
		used[header] = true
		return value, true
	}

	var rec contact.Record

	rec.FirstName, rec.LastName = m.resolveName(resolve)
	rec.Email, _ = resolve(FieldEmail)
	rec.Phone, _ = resolve(FieldPhone)

	m.resolveAddress(&rec, resolve)

	if raw, ok := resolve(FieldDateOfBirth); ok && raw != "" {
		rec.DateOfBirth = NormalizeDate(raw)
	}

	stage, _ := resolve(FieldStage)
	rec.BorrowerStage = contact.ValidateStage(stage)

	rec.PartnerType, _ = resolve(FieldPartnerType)
	rec.LeadSource, _ = resolve(FieldLeadSource)
	rec.Campaign, _ = resolve(FieldCampaign)

	rec.Extras = m.collectExtras(headers, row, used)
	return rec
}

// resolveName produces first/last name from whichever variant the profile
// can satisfy: dedicated first/last columns concatenated and re-split, or a
// full-name column split on the first whitespace boundary (which, for the
// registered profile, falls back to the first column positionally).
func (m *Mapper) resolveName(resolve func(Field) (string, bool)) (first, last string) {
	firstRaw, firstOK := resolve(FieldFirstName)
	lastRaw, lastOK := resolve(FieldLastName)

	if firstOK || lastOK {
		return SplitName(strings.TrimSpace(firstRaw + " " + lastRaw))
	}

	full, _ := resolve(FieldFullName)
	return SplitName(full)
}

// resolveAddress fills the address fields. When the sheet has no dedicated
// city/province/postal columns, the address column is treated as a combined
// string and decomposed heuristically.
func (m *Mapper) resolveAddress(rec *contact.Record, resolve func(Field) (string, bool)) {
	street, _ := resolve(FieldAddress)
	city, cityOK := resolve(FieldCity)
	province, provinceOK := resolve(FieldProvince)
	postal, postalOK := resolve(FieldPostalCode)

	if !cityOK && !provinceOK && !postalOK && street != "" {
		parts := DecomposeAddress(street)
		rec.Address = parts.Street
		rec.City = parts.City
		rec.Province = parts.Province
		rec.PostalCode = parts.PostalCode
		return
	}

	rec.Address = street
	rec.City = city
	rec.Province = province
	rec.PostalCode = postal
}

// collectExtras passes unclaimed columns through verbatim, keyed by their
// original header text, so the heuristic never silently drops data.
func (m *Mapper) collectExtras(headers []string, row sheet.Row, used map[string]bool) map[string]string {
	var extras map[string]string
	for _, h := range headers {
		if h == "" || used[h] {
			continue
		}
		v := row.Get(h)
		if m.profile.StrictExtras && strings.TrimSpace(v) == "" {
			continue
		}
		if extras == nil {
			extras = make(map[string]string)
		}
		extras[h] = v
	}
	return extras
}
