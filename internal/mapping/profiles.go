package mapping

// Built-in profiles. Keyword lists are ordered most-specific first so that
// "last name" is claimed by the last-name rule before the bare "name"
// keyword can see it.

// contactRules are the shared rules for keyword-driven profiles.
func contactRules() []FieldRule {
	return []FieldRule{
		{Field: FieldFirstName, Keywords: []string{"first name", "firstname", "first"}, Position: -1},
		{Field: FieldLastName, Keywords: []string{"last name", "lastname", "surname", "last"}, Position: -1},
		{Field: FieldFullName, Exact: []string{"name", "full name", "contact name"}, Keywords: []string{"full name"}, Position: -1},
		{Field: FieldEmail, Keywords: []string{"email", "e-mail"}, Position: -1},
		{Field: FieldPhone, Keywords: []string{"phone", "mobile", "cell"}, Position: -1},
		{Field: FieldAddress, Keywords: []string{"address", "street"}, Position: -1},
		{Field: FieldCity, Keywords: []string{"city", "town"}, Position: -1},
		{Field: FieldProvince, Keywords: []string{"province", "state"}, Position: -1},
		{Field: FieldPostalCode, Keywords: []string{"postal", "zip"}, Position: -1},
		{Field: FieldDateOfBirth, Keywords: []string{"date of birth", "birth date", "dob", "birth"}, Position: -1},
		{Field: FieldStage, Keywords: []string{"stage", "status"}, Position: -1},
		{Field: FieldPartnerType, Keywords: []string{"partner type", "partner"}, Position: -1},
		{Field: FieldLeadSource, Keywords: []string{"lead source", "source"}, Position: -1},
		{Field: FieldCampaign, Keywords: []string{"campaign"}, Position: -1},
	}
}

// withRule replaces the rule for a field, or appends when none exists.
func withRule(rules []FieldRule, rule FieldRule) []FieldRule {
	for i, r := range rules {
		if r.Field == rule.Field {
			rules[i] = rule
			return rules
		}
	}
	return append(rules, rule)
}

func init() {
	Register(Profile{
		Key:          "standard",
		Label:        "Standard",
		Rules:        contactRules(),
		StrictExtras: false,
	})

	Register(Profile{
		Key:          "strict",
		Label:        "Strict passthrough",
		Rules:        contactRules(),
		StrictExtras: true,
	})

	// Sheets exported by systems that track sign-up date instead of birth
	// date, often without labelled name columns.
	registered := contactRules()
	registered = withRule(registered, FieldRule{
		Field:    FieldDateOfBirth,
		Exact:    []string{"date registered"},
		Position: -1,
	})
	registered = withRule(registered, FieldRule{
		Field:    FieldFullName,
		Exact:    []string{"name", "full name", "contact name"},
		Keywords: []string{"full name"},
		Position: 0,
	})
	Register(Profile{
		Key:          "registered",
		Label:        "Date Registered",
		Rules:        registered,
		StrictExtras: true,
	})
}
