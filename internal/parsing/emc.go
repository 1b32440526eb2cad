package parsing

import (
	"bytes"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// UKLabelSection pairs an SmPC section number with its standard title.
type UKLabelSection struct {
	Code  string
	Title string
}

// UKLabelSections is the fixed SmPC numbering table.
var UKLabelSections = []UKLabelSection{
	{"1", "Name of the medicinal product"},
	{"2", "Qualitative and quantitative composition"},
	{"3", "Pharmaceutical form"},
	{"4.1", "Therapeutic indications"},
	{"4.2", "Posology and method of administration"},
	{"4.3", "Contraindications"},
	{"4.4", "Special warnings and precautions for use"},
	{"4.5", "Interaction with other medicinal products and other forms of interaction"},
	{"4.6", "Fertility, pregnancy and lactation"},
	{"4.7", "Effects on ability to drive and use machines"},
	{"4.8", "Undesirable effects"},
	{"4.9", "Overdose"},
	{"5.1", "Pharmacodynamic properties"},
	{"5.2", "Pharmacokinetic properties"},
	{"5.3", "Preclinical safety data"},
	{"6.1", "List of excipients"},
	{"6.2", "Incompatibilities"},
	{"6.3", "Shelf life"},
	{"6.4", "Special precautions for storage"},
	{"6.5", "Nature and contents of container"},
	{"6.6", "Special precautions for disposal and other handling"},
	{"7", "Marketing authorisation holder"},
	{"8", "Marketing authorisation number(s)"},
	{"9", "Date of first authorisation/renewal of the authorisation"},
	{"10", "Date of revision of the text"},
}

// ukSectionSynonyms maps common topic phrasings onto SmPC numbers. Fixed
// domain knowledge, not inferred from documents.
var ukSectionSynonyms = map[string]string{
	"indications":       "4.1",
	"uses":              "4.1",
	"dosage":            "4.2",
	"dose":              "4.2",
	"posology":          "4.2",
	"contraindications": "4.3",
	"warnings":          "4.4",
	"precautions":       "4.4",
	"interactions":      "4.5",
	"pregnancy":         "4.6",
	"breastfeeding":     "4.6",
	"lactation":         "4.6",
	"driving":           "4.7",
	"side effect":       "4.8",
	"side effects":      "4.8",
	"adverse reactions": "4.8",
	"overdose":          "4.9",
	"excipients":        "6.1",
	"shelf life":        "6.3",
	"storage":           "6.4",
}

func knownUKCode(code string) bool {
	for _, s := range UKLabelSections {
		if s.Code == code {
			return true
		}
	}
	return false
}

func emcProductURL(productID string) string {
	return "https://www.medicines.org.uk/emc/product/" + productID + "/smpc"
}

// ukHeadingRe matches a leading "<number> <title>" heading, with or without
// a separator after the number.
var ukHeadingRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)[.):]?\s+(\S.*)$`)

// ukBoundary is one detected section start in the label page.
type ukBoundary struct {
	code  string
	title string
	node  *html.Node
}

// ParseUKLabel segments a UK medicine-label HTML page into numbered SmPC
// sections. requests optionally filters by section number, title text or a
// recognized synonym; an empty filter keeps every detected section.
//
// Segmentation tries two strategies in order and takes the first that finds
// anything: a structural scan of heading-like elements, then an exhaustive
// scan of leaf elements restricted to recognized section numbers. The two
// segmentations are never merged.
func ParseUKLabel(raw []byte, productID string, requests []string) (*Label, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing label html: %w", err)
	}

	label := &Label{SourceID: productID}
	if productID != "" {
		label.URL = emcProductURL(productID)
	}
	label.DrugName = strings.TrimSpace(doc.Find("h1").First().Text())
	if label.DrugName == "" {
		label.DrugName = strings.TrimSpace(doc.Find("title").First().Text())
	}

	boundaries := segmentStructural(doc)
	if len(boundaries) == 0 {
		log.Println("No structural section headings found, falling back to exhaustive scan")
		boundaries = segmentExhaustive(doc)
	}

	marked := make(map[*html.Node]bool, len(boundaries))
	for _, b := range boundaries {
		marked[b.node] = true
	}

	var out []Section
	index := make(map[string]int)
	for _, b := range boundaries {
		content := siblingContent(b.node, marked)
		if content == "" {
			// Heading and content share a container rather than being
			// siblings: take the parent's text minus the heading itself.
			content = parentContent(b)
		}
		sec := Section{Code: b.code, Title: b.title, Content: content}
		if !ukSectionRequested(sec, requests) {
			continue
		}
		if i, ok := index[sec.Code]; ok {
			out[i] = sec
			continue
		}
		index[sec.Code] = len(out)
		out = append(out, sec)
	}
	label.Sections = out
	return label, nil
}

// segmentStructural scans heading tags and elements bearing section
// identifier attributes for a leading "<number> <title>" pattern.
func segmentStructural(doc *goquery.Document) []ukBoundary {
	var out []ukBoundary
	doc.Find("h1, h2, h3, h4, h5, [data-section], [data-bookmark]").Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		code, title := matchHeading(s.Text())
		if code == "" {
			return
		}
		out = append(out, ukBoundary{code: code, title: title, node: s.Nodes[0]})
	})
	return out
}

// segmentExhaustive scans every leaf-ish element for the same pattern but
// only accepts recognized section numbers, so unrelated numbered text
// ("2023 annual review") cannot produce false boundaries.
func segmentExhaustive(doc *goquery.Document) []ukBoundary {
	var out []ukBoundary
	doc.Find("p, b, strong, span, div, li, td").Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 || !leafish(s.Nodes[0]) {
			return
		}
		code, title := matchHeading(s.Text())
		if code == "" || !knownUKCode(code) {
			return
		}
		out = append(out, ukBoundary{code: code, title: title, node: s.Nodes[0]})
	})
	return out
}

func matchHeading(text string) (code, title string) {
	text = collapseSpaces(strings.TrimSpace(text))
	m := ukHeadingRe.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	return m[1], strings.TrimSpace(m[2])
}

// leafish reports whether an element carries only text, i.e. it is a text
// leaf rather than a layout container whose text happens to start with a
// number.
func leafish(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return false
		}
	}
	return true
}

// siblingContent flattens every sibling after the boundary until the next
// boundary or the end of the container.
func siblingContent(n *html.Node, marked map[*html.Node]bool) string {
	var parts []string
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if marked[s] || containsMarked(s, marked) {
			break
		}
		if t := flattenHTML(s); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

func containsMarked(n *html.Node, marked map[*html.Node]bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if marked[c] || containsMarked(c, marked) {
			return true
		}
	}
	return false
}

// parentContent extracts the boundary's parent text with the heading's own
// text removed once, so a phrase repeated in the body survives.
func parentContent(b ukBoundary) string {
	if b.node.Parent == nil {
		return ""
	}
	text := flattenHTML(b.node.Parent)
	heading := flattenHTML(b.node)
	if heading != "" {
		text = strings.Replace(text, heading, "", 1)
	}
	return strings.TrimSpace(strings.Trim(text, "\n"))
}

// ukSectionRequested accepts a section when a request equals its code, is
// contained in its title (either direction, case-insensitive) or is a
// recognized synonym mapping to its code.
func ukSectionRequested(sec Section, requests []string) bool {
	if len(requests) == 0 {
		return true
	}
	title := strings.ToLower(sec.Title)
	for _, r := range requests {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		if r == sec.Code {
			return true
		}
		if title != "" && (strings.Contains(title, r) || strings.Contains(r, title)) {
			return true
		}
		if code, ok := ukSectionSynonyms[r]; ok && code == sec.Code {
			return true
		}
	}
	return false
}

var htmlSkipTags = map[string]bool{"script": true, "style": true, "noscript": true}

var htmlBlockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true, "tr": true,
	"table": true, "section": true, "article": true, "br": true, "hr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "dt": true, "dd": true,
}

// flattenHTML renders a DOM subtree as plain text: block elements break
// lines, everything else contributes inline text.
func flattenHTML(n *html.Node) string {
	var b strings.Builder
	flattenHTMLNode(n, &b)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		line = collapseSpaces(strings.TrimSpace(line))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func flattenHTMLNode(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if htmlSkipTags[n.Data] {
			return
		}
		if htmlBlockTags[n.Data] {
			b.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flattenHTMLNode(c, b)
	}
	if n.Type == html.ElementNode && htmlBlockTags[n.Data] {
		b.WriteString("\n")
	}
}

var spacesRe = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return spacesRe.ReplaceAllString(s, " ")
}

var emcProductLinkRe = regexp.MustCompile(`/emc/product/(\d+)`)

// ParseEMCSearch picks the first product id out of an emc search results
// page.
func ParseEMCSearch(raw []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parsing search html: %w", err)
	}
	var id string
	doc.Find(`a[href*="/emc/product/"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if m := emcProductLinkRe.FindStringSubmatch(href); m != nil {
			id = m[1]
			return false
		}
		return true
	})
	if id == "" {
		return "", ErrNotFound
	}
	return id, nil
}
