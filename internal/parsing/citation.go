package parsing

import (
	"fmt"
	"regexp"
	"strings"
)

// CitationStyle selects one of the supported output formats.
type CitationStyle string

const (
	StyleAPA       CitationStyle = "apa"
	StyleVancouver CitationStyle = "vancouver"
	StyleHarvard   CitationStyle = "harvard"
	StyleBibTeX    CitationStyle = "bibtex"
)

// FormatCitation renders an article in the requested style. Missing
// optional fields (volume, issue, pages, DOI) are omitted entirely, never
// rendered as blank placeholders. Formatting itself never fails; only an
// unknown style is an error.
func FormatCitation(a *Article, style CitationStyle) (string, error) {
	switch style {
	case StyleAPA:
		return formatAPA(a), nil
	case StyleVancouver:
		return formatVancouver(a), nil
	case StyleHarvard:
		return formatHarvard(a), nil
	case StyleBibTeX:
		return formatBibTeX(a), nil
	}
	return "", fmt.Errorf("unknown citation style: %q", style)
}

// initials derives one-letter initials from the given name, preferring the
// source's own Initials field.
func initials(a Author) []string {
	if a.Initials != "" {
		out := make([]string, 0, len(a.Initials))
		for _, r := range a.Initials {
			if r != ' ' && r != '.' {
				out = append(out, string(r))
			}
		}
		return out
	}
	var out []string
	for _, w := range strings.Fields(a.ForeName) {
		out = append(out, string([]rune(w)[:1]))
	}
	return out
}

// apaAuthor renders "Last, F. M.".
func apaAuthor(a Author) string {
	if a.CollectiveName != "" {
		return a.CollectiveName
	}
	ins := initials(a)
	if len(ins) == 0 {
		return a.LastName
	}
	return a.LastName + ", " + strings.Join(ins, ". ") + "."
}

// formatAPA lists up to seven authors in full; longer lists elide to the
// first six, an ellipsis and the final author.
func formatAPA(a *Article) string {
	var names []string
	for _, au := range a.Authors {
		names = append(names, apaAuthor(au))
	}

	var authors string
	switch {
	case len(names) == 0:
	case len(names) == 1:
		authors = names[0]
	case len(names) <= 7:
		authors = strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
	default:
		authors = strings.Join(names[:6], ", ") + ", . . . " + names[len(names)-1]
	}

	var b strings.Builder
	if authors != "" {
		b.WriteString(authors)
		b.WriteString(" ")
	}
	if a.Year != "" {
		fmt.Fprintf(&b, "(%s). ", a.Year)
	}
	b.WriteString(sentence(a.Title))
	b.WriteString(" ")
	b.WriteString(a.Journal)
	if a.Volume != "" {
		b.WriteString(", " + a.Volume)
		if a.Issue != "" {
			b.WriteString("(" + a.Issue + ")")
		}
	}
	if a.Pages != "" {
		b.WriteString(", " + a.Pages)
	}
	b.WriteString(".")
	if a.DOI != "" {
		b.WriteString(" https://doi.org/" + a.DOI)
	}
	return strings.TrimSpace(b.String())
}

// vancouverAuthor renders "Last FM" with concatenated initials.
func vancouverAuthor(a Author) string {
	if a.CollectiveName != "" {
		return a.CollectiveName
	}
	ins := strings.Join(initials(a), "")
	if ins == "" {
		return a.LastName
	}
	return a.LastName + " " + ins
}

// formatVancouver lists up to six authors in full; longer lists elide to
// the first six followed by "et al".
func formatVancouver(a *Article) string {
	var names []string
	for _, au := range a.Authors {
		names = append(names, vancouverAuthor(au))
	}

	var authors string
	switch {
	case len(names) == 0:
	case len(names) <= 6:
		authors = strings.Join(names, ", ")
	default:
		authors = strings.Join(names[:6], ", ") + ", et al"
	}

	var b strings.Builder
	if authors != "" {
		b.WriteString(authors + ". ")
	}
	b.WriteString(sentence(a.Title))
	b.WriteString(" ")
	b.WriteString(a.Journal)
	b.WriteString(". ")
	b.WriteString(a.Year)
	if a.Volume != "" {
		b.WriteString(";" + a.Volume)
		if a.Issue != "" {
			b.WriteString("(" + a.Issue + ")")
		}
	}
	// Pages can exist without a volume (epub ahead of print, supplements)
	if a.Pages != "" {
		b.WriteString(":" + a.Pages)
	}
	b.WriteString(".")
	if a.DOI != "" {
		b.WriteString(" doi: " + a.DOI)
	}
	return strings.TrimSpace(b.String())
}

// harvardAuthor renders "Last, F.M.".
func harvardAuthor(a Author) string {
	if a.CollectiveName != "" {
		return a.CollectiveName
	}
	ins := initials(a)
	if len(ins) == 0 {
		return a.LastName
	}
	return a.LastName + ", " + strings.Join(ins, ".") + "."
}

// formatHarvard lists up to three authors in full; longer lists collapse to
// the first author followed by "et al.".
func formatHarvard(a *Article) string {
	var names []string
	for _, au := range a.Authors {
		names = append(names, harvardAuthor(au))
	}

	var authors string
	switch {
	case len(names) == 0:
	case len(names) == 1:
		authors = names[0]
	case len(names) <= 3:
		authors = strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	default:
		authors = names[0] + " et al."
	}

	var b strings.Builder
	if authors != "" {
		b.WriteString(authors + " ")
	}
	if a.Year != "" {
		fmt.Fprintf(&b, "(%s) ", a.Year)
	}
	fmt.Fprintf(&b, "'%s', %s", strings.TrimSuffix(a.Title, "."), a.Journal)
	if a.Volume != "" {
		b.WriteString(", " + a.Volume)
		if a.Issue != "" {
			b.WriteString("(" + a.Issue + ")")
		}
	}
	if a.Pages != "" {
		b.WriteString(", pp. " + a.Pages)
	}
	b.WriteString(".")
	if a.DOI != "" {
		b.WriteString(" doi: " + a.DOI + ".")
	}
	return strings.TrimSpace(b.String())
}

var nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// bibtexKey derives a citation key from the first author's surname and the
// year, falling back to a pmid-based key when no author exists.
func bibtexKey(a *Article) string {
	for _, au := range a.Authors {
		if au.LastName != "" {
			return strings.ToLower(nonAlnumRe.ReplaceAllString(au.LastName, "")) + a.Year
		}
	}
	return "pmid" + a.PMID
}

// formatBibTeX lists every author joined with "and"; nothing is elided.
func formatBibTeX(a *Article) string {
	var names []string
	for _, au := range a.Authors {
		switch {
		case au.CollectiveName != "":
			names = append(names, "{"+au.CollectiveName+"}")
		case au.ForeName != "":
			names = append(names, au.LastName+", "+au.ForeName)
		case au.Initials != "":
			names = append(names, au.LastName+", "+au.Initials)
		default:
			names = append(names, au.LastName)
		}
	}

	fields := [][2]string{
		{"author", strings.Join(names, " and ")},
		{"title", a.Title},
		{"journal", a.Journal},
		{"year", a.Year},
		{"volume", a.Volume},
		{"number", a.Issue},
		{"pages", a.Pages},
		{"doi", a.DOI},
		{"pmid", a.PMID},
	}

	var lines []string
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s = {%s}", f[0], f[1]))
	}
	return "@article{" + bibtexKey(a) + ",\n" + strings.Join(lines, ",\n") + "\n}"
}

// sentence makes sure a fragment ends with exactly one period.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!") {
		return s
	}
	return s + "."
}
