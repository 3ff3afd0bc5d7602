package services

import "strings"

// MatchKind records which rule resolved a header.
type MatchKind string

const (
	MatchSchema    MatchKind = "schema"
	MatchComposite MatchKind = "composite"
	MatchDiscom    MatchKind = "discom"
	MatchLegacy    MatchKind = "legacy"
	MatchFallback  MatchKind = "fallback"
	MatchNone      MatchKind = "unmapped"
)

// HeaderMatch is the outcome of resolving one spreadsheet header.
type HeaderMatch struct {
	Header   string
	FieldKey string
	Kind     MatchKind
}

// Mapped reports whether the header resolved to a field.
func (m HeaderMatch) Mapped() bool { return m.Kind != MatchNone }

// headerRule is one step of header resolution. Rules are evaluated in order
// and the first to return ok wins.
type headerRule struct {
	kind  MatchKind
	match func(norm string, aliases AliasMap) (string, bool)
}

var headerRules = []headerRule{
	{MatchSchema, func(h string, m AliasMap) (string, bool) {
		if e, ok := m[h]; ok && e.Source == AliasFromSchema {
			return e.FieldKey, true
		}
		return "", false
	}},
	{MatchComposite, func(h string, _ AliasMap) (string, bool) {
		key, ok := compositeSlotHeaders[h]
		return key, ok
	}},
	{MatchDiscom, func(h string, _ AliasMap) (string, bool) {
		if strings.Contains(h, "discom") {
			return FieldDiscom, true
		}
		return "", false
	}},
	{MatchLegacy, func(h string, m AliasMap) (string, bool) {
		if e, ok := m[h]; ok {
			return e.FieldKey, true
		}
		return "", false
	}},
	{MatchFallback, func(h string, _ AliasMap) (string, bool) {
		hasName := strings.Contains(h, "name")
		for i, n := range []string{"2", "3"} {
			if !strings.Contains(h, n) {
				continue
			}
			if strings.Contains(h, "mobile") && !hasName {
				return []string{FieldMobileNumber2, FieldMobileNumber3}[i], true
			}
			if strings.Contains(h, "contact") && hasName {
				return []string{FieldContactName2, FieldContactName3}[i], true
			}
		}
		return "", false
	}},
}

// ResolveHeader maps one raw header to a field key using the alias map and
// the composite, containment, legacy and substring rules.
func ResolveHeader(header string, aliases AliasMap) HeaderMatch {
	h := normalizeHeader(header)
	if h == "" {
		return HeaderMatch{Header: header, Kind: MatchNone}
	}
	for _, r := range headerRules {
		if key, ok := r.match(h, aliases); ok {
			return HeaderMatch{Header: header, FieldKey: key, Kind: r.kind}
		}
	}
	return HeaderMatch{Header: header, Kind: MatchNone}
}

// ResolveHeaders resolves every header of a file once.
func ResolveHeaders(headers []string, aliases AliasMap) []HeaderMatch {
	out := make([]HeaderMatch, len(headers))
	for i, h := range headers {
		out[i] = ResolveHeader(h, aliases)
	}
	return out
}

// compositeSlotHeaders are historical headers addressing secondary contact
// slots. Keys are normalized.
var compositeSlotHeaders = buildCompositeSlotHeaders()

func buildCompositeSlotHeaders() map[string]string {
	sets := map[string][]string{
		FieldMobileNumber2: {
			"mobile number 2", "mobile number2", "mobile2", "phone 2", "phone2",
			"mobile no 2", "mobile no. 2", "mobile no2", "contact number 2", "contact no 2",
			"mobile 2", "phone no 2", "phone no. 2", "phone no2", "tel 2", "tel2",
			"telephone 2", "telephone2",
		},
		FieldMobileNumber3: {
			"mobile number 3", "mobile number3", "mobile3", "phone 3", "phone3",
			"mobile no 3", "mobile no. 3", "mobile no3", "contact number 3", "contact no 3",
			"mobile 3", "phone no 3", "phone no. 3", "phone no3", "tel 3", "tel3",
			"telephone 3", "telephone3",
		},
		FieldContactName2: {
			"contact name 2", "contact name2", "contact2", "name 2", "name2",
			"contact person 2", "person name 2", "contact person2", "contact 2",
			"person 2", "person2", "contact person name 2", "contact person name2",
			"person contact 2", "person contact2",
		},
		FieldContactName3: {
			"contact name 3", "contact name3", "contact3", "name 3", "name3",
			"contact person 3", "person name 3", "contact person3", "contact 3",
			"person 3", "person3", "contact person name 3", "contact person name3",
			"person contact 3", "person contact3",
		},
	}
	out := make(map[string]string)
	for key, headers := range sets {
		for _, h := range headers {
			out[h] = key
		}
	}
	return out
}
