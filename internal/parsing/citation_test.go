package parsing

import (
	"fmt"
	"strings"
	"testing"
)

func sampleAuthors(n int) []Author {
	out := make([]Author, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Author{
			LastName: fmt.Sprintf("Author%c", 'A'+i),
			ForeName: "Jane",
			Initials: "J",
		})
	}
	return out
}

func sampleArticle(authorCount int) *Article {
	return &Article{
		PMID:    "31452104",
		Title:   "Metformin in type 2 diabetes",
		Authors: sampleAuthors(authorCount),
		Journal: "The Lancet",
		Year:    "2019",
		Volume:  "394",
		Issue:   "10204",
		Pages:   "1145-1158",
		DOI:     "10.1000/xyz",
	}
}

func TestFormatAPA(t *testing.T) {
	got, err := FormatCitation(sampleArticle(2), StyleAPA)
	if err != nil {
		t.Fatal(err)
	}
	expected := "AuthorA, J., & AuthorB, J. (2019). Metformin in type 2 diabetes. " +
		"The Lancet, 394(10204), 1145-1158. https://doi.org/10.1000/xyz"
	checkField(t, "APA two authors", expected, got)
}

func TestFormatAPAAuthorElision(t *testing.T) {
	// seven authors are listed in full
	got, _ := FormatCitation(sampleArticle(7), StyleAPA)
	if strings.Contains(got, ". . .") {
		t.Errorf("seven authors should not be elided: %s", got)
	}
	if !strings.Contains(got, "AuthorF, J., & AuthorG, J.") {
		t.Errorf("seventh author missing: %s", got)
	}

	// eight collapse to the first six, an ellipsis and the last
	got, _ = FormatCitation(sampleArticle(8), StyleAPA)
	if !strings.Contains(got, "AuthorF, J., . . . AuthorH, J.") {
		t.Errorf("eight authors should elide to six plus last: %s", got)
	}
	if strings.Contains(got, "AuthorG") {
		t.Errorf("seventh of eight authors should be elided: %s", got)
	}
}

func TestFormatVancouver(t *testing.T) {
	got, err := FormatCitation(sampleArticle(6), StyleVancouver)
	if err != nil {
		t.Fatal(err)
	}
	expected := "AuthorA J, AuthorB J, AuthorC J, AuthorD J, AuthorE J, AuthorF J. " +
		"Metformin in type 2 diabetes. The Lancet. 2019;394(10204):1145-1158. doi: 10.1000/xyz"
	checkField(t, "Vancouver six authors", expected, got)

	got, _ = FormatCitation(sampleArticle(7), StyleVancouver)
	if !strings.Contains(got, "AuthorF J, et al.") {
		t.Errorf("seven authors should elide to six plus et al: %s", got)
	}
	if strings.Contains(got, "AuthorG") {
		t.Errorf("seventh author should be elided: %s", got)
	}
}

func TestFormatHarvard(t *testing.T) {
	got, err := FormatCitation(sampleArticle(3), StyleHarvard)
	if err != nil {
		t.Fatal(err)
	}
	expected := "AuthorA, J., AuthorB, J. and AuthorC, J. (2019) 'Metformin in type 2 diabetes', " +
		"The Lancet, 394(10204), pp. 1145-1158. doi: 10.1000/xyz."
	checkField(t, "Harvard three authors", expected, got)

	got, _ = FormatCitation(sampleArticle(4), StyleHarvard)
	if !strings.HasPrefix(got, "AuthorA, J. et al. (2019)") {
		t.Errorf("four authors should collapse to first plus et al.: %s", got)
	}
}

func TestFormatBibTeX(t *testing.T) {
	got, err := FormatCitation(sampleArticle(9), StyleBibTeX)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "@article{authora2019,") {
		t.Errorf("wrong citation key: %s", got)
	}
	// bibtex never elides authors
	for i := 0; i < 9; i++ {
		name := fmt.Sprintf("Author%c, Jane", 'A'+i)
		if !strings.Contains(got, name) {
			t.Errorf("author %s missing: %s", name, got)
		}
	}
	if !strings.Contains(got, "  doi = {10.1000/xyz}") {
		t.Errorf("doi field missing: %s", got)
	}
	if !strings.Contains(got, "  pmid = {31452104}") {
		t.Errorf("pmid field missing: %s", got)
	}
	if !strings.HasSuffix(got, "\n}") {
		t.Errorf("entry should close on its own line: %s", got)
	}
}

func TestFormatBibTeXCollective(t *testing.T) {
	a := sampleArticle(1)
	a.Authors = append(a.Authors, Author{CollectiveName: "Diabetes Outcomes Study Group"})
	got, _ := FormatCitation(a, StyleBibTeX)
	if !strings.Contains(got, "AuthorA, Jane and {Diabetes Outcomes Study Group}") {
		t.Errorf("collective author should be brace-protected: %s", got)
	}
}

func TestFormatCitationOmitsEmptyFields(t *testing.T) {
	a := &Article{
		PMID:    "1",
		Title:   "Short report",
		Authors: []Author{{LastName: "Smith", Initials: "J"}},
		Journal: "BMJ",
		Year:    "2020",
	}

	got, _ := FormatCitation(a, StyleAPA)
	checkField(t, "APA minimal", "Smith, J. (2020). Short report. BMJ.", got)

	got, _ = FormatCitation(a, StyleVancouver)
	checkField(t, "Vancouver minimal", "Smith J. Short report. BMJ. 2020.", got)

	// pages without a volume still render
	a.Pages = "e100-e110"
	got, _ = FormatCitation(a, StyleVancouver)
	checkField(t, "Vancouver pages only", "Smith J. Short report. BMJ. 2020:e100-e110.", got)
	a.Pages = ""

	got, _ = FormatCitation(a, StyleBibTeX)
	for _, field := range []string{"volume", "number", "pages", "doi"} {
		if strings.Contains(got, field+" = ") {
			t.Errorf("empty %s field should be omitted: %s", field, got)
		}
	}
}

func TestFormatCitationMultiInitials(t *testing.T) {
	a := &Article{
		Title:   "T",
		Authors: []Author{{LastName: "Smith", ForeName: "Jane Anne", Initials: "JA"}},
		Journal: "J",
		Year:    "2020",
	}
	apa, _ := FormatCitation(a, StyleAPA)
	if !strings.HasPrefix(apa, "Smith, J. A.") {
		t.Errorf("APA initials wrong: %s", apa)
	}
	van, _ := FormatCitation(a, StyleVancouver)
	if !strings.HasPrefix(van, "Smith JA.") {
		t.Errorf("Vancouver initials wrong: %s", van)
	}
	har, _ := FormatCitation(a, StyleHarvard)
	if !strings.HasPrefix(har, "Smith, J.A.") {
		t.Errorf("Harvard initials wrong: %s", har)
	}
}

func TestFormatCitationUnknownStyle(t *testing.T) {
	if _, err := FormatCitation(sampleArticle(1), CitationStyle("chicago")); err == nil {
		t.Error("expected an error for an unknown style")
	}
}
