package services

import "testing"

func TestResolveHeader_RuleOrder(t *testing.T) {
	aliases := BuildAliasMap(DefaultColumns(), nil, nil)

	tests := []struct {
		header string
		key    string
		kind   MatchKind
	}{
		{"Client Name", FieldClientName, MatchSchema},
		{"con.no", FieldConsumerNumber, MatchSchema},
		{"Mobile Number 2", FieldMobileNumber2, MatchComposite},
		{"phone3", FieldMobileNumber3, MatchComposite},
		{"Contact Person 2", FieldContactName2, MatchComposite},
		{"name3", FieldContactName3, MatchComposite},
		{"Discom Name", FieldDiscom, MatchDiscom},
		{"DISCOM / Circle", FieldDiscom, MatchDiscom},
		{"Name", FieldClientName, MatchLegacy},
		{"Mobile Number", FieldMobileNumber, MatchLegacy},
		{"Status", FieldStatus, MatchLegacy},
		{"next call date", FieldFollowUpDate, MatchLegacy},
		{"Alternate Mobile (2)", FieldMobileNumber2, MatchFallback},
		{"secondary contact name 2", FieldContactName2, MatchFallback},
		{"backup mobile 3", FieldMobileNumber3, MatchFallback},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			m := ResolveHeader(tt.header, aliases)
			if m.FieldKey != tt.key || m.Kind != tt.kind {
				t.Errorf("ResolveHeader(%q) = (%q, %s), want (%q, %s)", tt.header, m.FieldKey, m.Kind, tt.key, tt.kind)
			}
		})
	}
}

func TestResolveHeader_MobileWithNameIsNotAPhone(t *testing.T) {
	aliases := BuildAliasMap(DefaultColumns(), nil, nil)
	m := ResolveHeader("mobile owner name 2", aliases)
	if m.Mapped() {
		t.Errorf("expected unmapped, got %q via %s", m.FieldKey, m.Kind)
	}
}

func TestResolveHeader_Unmapped(t *testing.T) {
	aliases := BuildAliasMap(DefaultColumns(), nil, nil)
	for _, h := range []string{"Favourite Colour", "", "   "} {
		m := ResolveHeader(h, aliases)
		if m.Mapped() {
			t.Errorf("ResolveHeader(%q) unexpectedly mapped to %q", h, m.FieldKey)
		}
		if m.Kind != MatchNone {
			t.Errorf("ResolveHeader(%q) kind = %s, want %s", h, m.Kind, MatchNone)
		}
	}
}

func TestResolveHeader_SchemaBeatsComposite(t *testing.T) {
	cols := append(DefaultColumns(), ColumnConfig{Key: "officePhone", Label: "Phone 2", Type: ColumnPhone, Visible: true})
	m := ResolveHeader("phone 2", BuildAliasMap(cols, nil, nil))
	if m.FieldKey != "officePhone" || m.Kind != MatchSchema {
		t.Errorf("ResolveHeader(phone 2) = (%q, %s), want officePhone via schema", m.FieldKey, m.Kind)
	}
}

func TestResolveHeaders_OnePerColumn(t *testing.T) {
	headers := []string{"con.no", "Name", "Mobile Number", "Status", "Unknown"}
	got := ResolveHeaders(headers, BuildAliasMap(DefaultColumns(), nil, nil))
	if len(got) != len(headers) {
		t.Fatalf("expected %d matches, got %d", len(headers), len(got))
	}
	if got[4].Mapped() {
		t.Errorf("expected last header unmapped")
	}
	for i, h := range headers {
		if got[i].Header != h {
			t.Errorf("match %d header = %q, want %q", i, got[i].Header, h)
		}
	}
}
