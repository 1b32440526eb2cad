package parsing

import "strings"

// Mapping declares that one label topic is carried by a particular LOINC
// code in US labels and a particular SmPC number in UK labels. This table
// is the only place where cross-jurisdiction equivalence is declared.
type Mapping struct {
	Topic  string `json:"topic"`
	USCode string `json:"us_code"`
	UKCode string `json:"uk_code"`
}

// LabelCrosswalk is static domain knowledge: each topic maps to exactly one
// code per jurisdiction.
var LabelCrosswalk = []Mapping{
	{"indications", "34067-9", "4.1"},
	{"dosage", "34068-7", "4.2"},
	{"contraindications", "34070-3", "4.3"},
	{"warnings", "43685-7", "4.4"},
	{"interactions", "34073-7", "4.5"},
	{"pregnancy", "43684-0", "4.6"},
	{"adverse_reactions", "34084-4", "4.8"},
	{"overdose", "34088-5", "4.9"},
	{"pharmacology", "34090-1", "5.1"},
	{"storage", "44425-7", "6.4"},
}

// FilterCrosswalk narrows the crosswalk to caller-requested topics. An
// empty request keeps the whole table. Matching is case-insensitive and
// tolerates space/underscore differences.
func FilterCrosswalk(topics []string) []Mapping {
	if len(topics) == 0 {
		return LabelCrosswalk
	}
	want := make(map[string]bool, len(topics))
	for _, t := range topics {
		t = strings.ToLower(strings.TrimSpace(t))
		want[strings.ReplaceAll(t, " ", "_")] = true
	}
	var out []Mapping
	for _, m := range LabelCrosswalk {
		if want[m.Topic] {
			out = append(out, m)
		}
	}
	return out
}

// CompareLabels assembles one comparison row per mapping, in table order.
// Either label may be nil (a failed or absent fetch); absence of a section
// on one side is represented explicitly, never omitted, so the output
// always has exactly len(mappings) rows.
func CompareLabels(us, uk *Label, mappings []Mapping) *Comparison {
	cmp := &Comparison{Rows: make([]ComparisonRow, 0, len(mappings))}
	if us != nil {
		cmp.USURL = us.URL
	}
	if uk != nil {
		cmp.UKURL = uk.URL
	}
	for _, m := range mappings {
		cmp.Rows = append(cmp.Rows, ComparisonRow{
			Topic: m.Topic,
			US:    us.SectionByCode(m.USCode),
			UK:    uk.SectionByCode(m.UKCode),
		})
	}
	return cmp
}
