package parsing

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// USLabelSection pairs a LOINC section code with its display name.
type USLabelSection struct {
	Code string
	Name string
}

// USLabelSections is the full known-code list for structured product
// labels, in conventional label order.
var USLabelSections = []USLabelSection{
	{"34066-1", "Boxed Warning"},
	{"34067-9", "Indications and Usage"},
	{"34068-7", "Dosage and Administration"},
	{"43678-2", "Dosage Forms and Strengths"},
	{"34070-3", "Contraindications"},
	{"43685-7", "Warnings and Precautions"},
	{"34071-1", "Warnings"},
	{"34084-4", "Adverse Reactions"},
	{"34073-7", "Drug Interactions"},
	{"43684-0", "Use in Specific Populations"},
	{"34088-5", "Overdosage"},
	{"34089-3", "Description"},
	{"34090-1", "Clinical Pharmacology"},
	{"34092-7", "Clinical Studies"},
	{"34069-5", "How Supplied"},
	{"34076-0", "Information for Patients"},
	{"44425-7", "Storage and Handling"},
}

func knownUSCode(code string) bool {
	for _, s := range USLabelSections {
		if s.Code == code {
			return true
		}
	}
	return false
}

// dailyMedSPLURL is the canonical label page for a set id.
func dailyMedLabelURL(setID string) string {
	return "https://dailymed.nlm.nih.gov/dailymed/drugInfo.cfm?setid=" + setID
}

// ParseUSLabel extracts sections from a structured-product-label XML
// document. codes filters by LOINC code; an empty set means every known
// code. When an explicit filter matches nothing but the document does carry
// recognized sections, extraction retries with the full known-code list:
// over-inclusion beats silent failure when callers pass unfamiliar codes.
func ParseUSLabel(raw []byte, codes []string) (*Label, error) {
	root, err := ParseXML(raw)
	if err != nil {
		return nil, err
	}
	if root.Name != "document" {
		return nil, ErrNotFound
	}
	h := NewDocumentHandle(root, "component", "section", "paragraph", "item")

	label := &Label{
		DrugName: splDrugName(TreeText(h.One(root, "title"))),
		SourceID: h.One(root, "setId").Attr("root"),
	}
	if label.SourceID != "" {
		label.URL = dailyMedLabelURL(label.SourceID)
	}

	label.Sections = splSections(root, codes)
	if len(label.Sections) == 0 && len(codes) > 0 {
		log.Printf("No sections matched requested codes %v, retrying with full code list\n", codes)
		label.Sections = splSections(root, nil)
	}
	return label, nil
}

// splSections walks every section of the component hierarchy and keeps the
// ones whose declared code is requested. Duplicate codes collapse to the
// last occurrence, which in practice is the most specific match.
func splSections(root *Node, codes []string) []Section {
	requested := make(map[string]bool, len(codes))
	for _, c := range codes {
		requested[strings.TrimSpace(c)] = true
	}

	var out []Section
	index := make(map[string]int)
	for _, sec := range root.Find("section") {
		code := sec.Child("code").Attr("code")
		if code == "" {
			continue
		}
		if len(codes) > 0 {
			if !requested[code] {
				continue
			}
		} else if !knownUSCode(code) {
			continue
		}
		section := Section{
			Code:    code,
			Title:   TreeText(sec.Child("title")),
			Content: splText(sec.Child("text")),
		}
		if section.Content == "" {
			continue
		}
		if i, ok := index[code]; ok {
			out[i] = section
			continue
		}
		index[code] = len(out)
		out = append(out, section)
	}
	return out
}

// splText flattens a section's text element. Paragraphs and list items
// become their own lines so no markup structure leaks into the content.
func splText(text *Node) string {
	if text == nil {
		return ""
	}
	var lines []string
	for _, c := range text.Children {
		switch c.Name {
		case "paragraph":
			if t := TreeText(c); t != "" {
				lines = append(lines, t)
			}
		case "list":
			for _, item := range c.ChildrenNamed("item") {
				if t := TreeText(item); t != "" {
					lines = append(lines, t)
				}
			}
		default:
			if t := TreeText(c); t != "" {
				lines = append(lines, t)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// splTitleSepRe matches the dash DailyMed puts between brand name and
// dosage-form tail. The dash is always followed by a space, which keeps
// hyphenated names like "CO-CODAMOL" intact.
var splTitleSepRe = regexp.MustCompile(`[-–—]\s`)

// splDrugName trims the dosage-form tail that DailyMed appends to document
// titles, e.g. "LIPITOR- atorvastatin calcium tablet, film coated".
func splDrugName(title string) string {
	if loc := splTitleSepRe.FindStringIndex(title); loc != nil {
		return strings.TrimSpace(title[:loc[0]])
	}
	return strings.TrimSpace(title)
}

type dailyMedSearchResponse struct {
	Data []struct {
		SetID string `json:"setid"`
		Title string `json:"title"`
	} `json:"data"`
}

// ParseDailyMedSearch picks the first set id out of a DailyMed spls.json
// search response.
func ParseDailyMedSearch(raw []byte) (string, error) {
	var resp dailyMedSearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("parsing dailymed search response: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", ErrNotFound
	}
	return resp.Data[0].SetID, nil
}
