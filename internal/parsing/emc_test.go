package parsing

import (
	"errors"
	"testing"
)

const structuralUKHTML = `<html>
<head><title>Metformin 500mg Tablets - Summary of Product Characteristics</title></head>
<body>
<h1>Metformin 500mg Tablets</h1>
<h2>4.1 Therapeutic indications</h2>
<p>Treatment of type 2 diabetes mellitus.</p>
<p>Particularly in overweight patients.</p>
<h2>4.2 Posology and method of administration</h2>
<p>The usual starting dose is 500 mg.</p>
<p><strong>2023 annual review</strong></p>
</body>
</html>`

const exhaustiveUKHTML = `<html>
<head><title>Metformin SmPC</title></head>
<body>
<div><strong>4.8 Undesirable effects</strong><p>Nausea and diarrhoea are common.</p></div>
<div><strong>4.9 Overdose</strong><p>Large overdose carries a risk of lactic acidosis.</p></div>
<p>2023 annual review</p>
</body>
</html>`

func TestParseUKLabelStructural(t *testing.T) {
	label, err := ParseUKLabel([]byte(structuralUKHTML), "1234", nil)
	if err != nil {
		t.Fatal(err)
	}

	checkField(t, "DrugName", "Metformin 500mg Tablets", label.DrugName)
	checkField(t, "SourceID", "1234", label.SourceID)
	checkField(t, "URL", "https://www.medicines.org.uk/emc/product/1234/smpc", label.URL)

	// only the numbered headings are boundaries; the bold review note is
	// leaf-ish but the exhaustive scan never runs when headings exist
	checkCount(t, "Sections", 2, len(label.Sections))
	checkField(t, "Section 1 Code", "4.1", label.Sections[0].Code)
	checkField(t, "Section 1 Title", "Therapeutic indications", label.Sections[0].Title)
	checkField(t, "Section 1 Content", "Treatment of type 2 diabetes mellitus.\nParticularly in overweight patients.", label.Sections[0].Content)
	checkField(t, "Section 2 Code", "4.2", label.Sections[1].Code)
}

func TestParseUKLabelExhaustive(t *testing.T) {
	label, err := ParseUKLabel([]byte(exhaustiveUKHTML), "1234", nil)
	if err != nil {
		t.Fatal(err)
	}

	// h1 is missing so the page title names the drug
	checkField(t, "DrugName", "Metformin SmPC", label.DrugName)

	// "2023" parses as a heading number but is not a known section code
	checkCount(t, "Sections", 2, len(label.Sections))
	checkField(t, "Section 1 Code", "4.8", label.Sections[0].Code)
	checkField(t, "Section 1 Title", "Undesirable effects", label.Sections[0].Title)
	checkField(t, "Section 1 Content", "Nausea and diarrhoea are common.", label.Sections[0].Content)
	checkField(t, "Section 2 Code", "4.9", label.Sections[1].Code)
	checkField(t, "Section 2 Content", "Large overdose carries a risk of lactic acidosis.", label.Sections[1].Content)
}

func TestParseUKLabelParentFallback(t *testing.T) {
	doc := `<html><body>
	<div>Hypersensitivity to metformin.<h2>4.3 Contraindications</h2></div>
	</body></html>`
	label, err := ParseUKLabel([]byte(doc), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	checkCount(t, "Sections", 1, len(label.Sections))
	checkField(t, "Fallback Content", "Hypersensitivity to metformin.", label.Sections[0].Content)
}

func TestParseUKLabelRequestFilter(t *testing.T) {
	full := `<html><body>
	<h2>4.1 Therapeutic indications</h2><p>Indicated for diabetes.</p>
	<h2>4.8 Undesirable effects</h2><p>Nausea.</p>
	<h2>4.9 Overdose</h2><p>Lactic acidosis.</p>
	</body></html>`

	cases := map[string]string{
		"4.8":         "4.8", // exact code
		"side effect": "4.8", // synonym
		"undesirable": "4.8", // title substring
		"overdose":    "4.9",
	}
	for request, want := range cases {
		label, err := ParseUKLabel([]byte(full), "", []string{request})
		if err != nil {
			t.Fatal(err)
		}
		if len(label.Sections) != 1 {
			t.Errorf("request %q: expected 1 section, got %d", request, len(label.Sections))
			continue
		}
		checkField(t, "request "+request, want, label.Sections[0].Code)
	}
}

func TestParseUKLabelDuplicateCode(t *testing.T) {
	doc := `<html><body>
	<h2>4.1 Therapeutic indications</h2><p>Summary text.</p>
	<h2>4.1 Therapeutic indications</h2><p>Expanded text.</p>
	</body></html>`
	label, err := ParseUKLabel([]byte(doc), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	checkCount(t, "Sections", 1, len(label.Sections))
	checkField(t, "Last occurrence wins", "Expanded text.", label.Sections[0].Content)
}

func TestParseEMCSearch(t *testing.T) {
	page := `<html><body>
	<a href="/emc/about">About</a>
	<a href="/emc/product/594/smpc">Metformin 500mg Tablets</a>
	<a href="/emc/product/9999/smpc">Other product</a>
	</body></html>`
	id, err := ParseEMCSearch([]byte(page))
	if err != nil {
		t.Fatal(err)
	}
	checkField(t, "ProductID", "594", id)

	_, err = ParseEMCSearch([]byte(`<html><body><p>No results found.</p></body></html>`))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
