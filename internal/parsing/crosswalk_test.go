package parsing

import "testing"

func TestCompareLabelsRowPerMapping(t *testing.T) {
	us := &Label{
		DrugName: "GLUCOPHAGE",
		URL:      "https://dailymed.nlm.nih.gov/dailymed/drugInfo.cfm?setid=abc",
		Sections: []Section{
			{Code: "34067-9", Title: "Indications and Usage", Content: "For diabetes."},
			{Code: "34084-4", Title: "Adverse Reactions", Content: "Diarrhea."},
		},
	}
	uk := &Label{
		DrugName: "Metformin 500mg Tablets",
		URL:      "https://www.medicines.org.uk/emc/product/594/smpc",
		Sections: []Section{
			{Code: "4.1", Title: "Therapeutic indications", Content: "Type 2 diabetes."},
		},
	}

	cmp := CompareLabels(us, uk, LabelCrosswalk)
	checkCount(t, "Rows", len(LabelCrosswalk), len(cmp.Rows))
	checkField(t, "USURL", us.URL, cmp.USURL)
	checkField(t, "UKURL", uk.URL, cmp.UKURL)

	indications := cmp.Rows[0]
	checkField(t, "Topic", "indications", indications.Topic)
	if indications.US == nil || indications.UK == nil {
		t.Fatal("indications should match on both sides")
	}
	checkField(t, "US Content", "For diabetes.", indications.US.Content)
	checkField(t, "UK Content", "Type 2 diabetes.", indications.UK.Content)

	// adverse reactions exist only on the US side; the row still appears
	// with an explicit nil UK side
	for _, row := range cmp.Rows {
		if row.Topic != "adverse_reactions" {
			continue
		}
		if row.US == nil {
			t.Error("US adverse reactions section should be present")
		}
		if row.UK != nil {
			t.Error("UK adverse reactions section should be absent")
		}
	}
}

func TestCompareLabelsNilSides(t *testing.T) {
	cmp := CompareLabels(nil, nil, LabelCrosswalk)
	checkCount(t, "Rows", len(LabelCrosswalk), len(cmp.Rows))
	for _, row := range cmp.Rows {
		if row.US != nil || row.UK != nil {
			t.Errorf("topic %s: expected both sides nil", row.Topic)
		}
	}
}

func TestFilterCrosswalk(t *testing.T) {
	all := FilterCrosswalk(nil)
	checkCount(t, "Full table", len(LabelCrosswalk), len(all))

	filtered := FilterCrosswalk([]string{"Adverse Reactions", "overdose"})
	checkCount(t, "Filtered", 2, len(filtered))
	checkField(t, "Topic 1", "adverse_reactions", filtered[0].Topic)
	checkField(t, "Topic 2", "overdose", filtered[1].Topic)

	checkCount(t, "No match", 0, len(FilterCrosswalk([]string{"nosuch"})))
}
