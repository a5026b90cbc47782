package mapping

import "strings"

// AddressParts is the result of decomposing a combined address string.
type AddressParts struct {
	Street     string
	City       string
	Province   string
	PostalCode string
}

// DecomposeAddress splits a combined address into street, city, province and
// postal code. Two strategies apply in order: split on comma/newline and
// assign positionally when that yields at least three parts, otherwise split
// on whitespace and assign from the tail inward. This is a heuristic, not a
// validated address parser; there is no country-specific format awareness.
func DecomposeAddress(s string) AddressParts {
	s = strings.TrimSpace(s)
	if s == "" {
		return AddressParts{}
	}

	parts := splitSeparated(s)
	if len(parts) >= 3 {
		out := AddressParts{
			Street:   parts[0],
			City:     parts[1],
			Province: parts[2],
		}
		if len(parts) > 3 {
			out.PostalCode = parts[3]
		}
		return out
	}

	tokens := strings.Fields(s)
	switch len(tokens) {
	case 0:
		return AddressParts{}
	case 1:
		// A single token offers nothing to decompose.
		return AddressParts{Street: tokens[0]}
	}

	out := AddressParts{PostalCode: tokens[len(tokens)-1]}
	tokens = tokens[:len(tokens)-1]
	out.Province = tokens[len(tokens)-1]
	tokens = tokens[:len(tokens)-1]
	if len(tokens) > 0 {
		out.City = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}
	out.Street = strings.Join(tokens, " ")
	return out
}

// splitSeparated splits on commas and line breaks, trimming each part and
// dropping empties.
func splitSeparated(s string) []string {
	raw := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
