package parsing

// Section is one addressable slice of a label or abstract. Code is a LOINC
// code for US labels, an SmPC number for UK labels and empty for unlabeled
// abstract fragments. Content is plain text, paragraphs separated by newlines.
type Section struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Author struct {
	LastName       string `json:"last_name,omitempty"`
	ForeName       string `json:"fore_name,omitempty"`
	Initials       string `json:"initials,omitempty"`
	CollectiveName string `json:"collective_name,omitempty"`
}

// AbstractSection is one labeled fragment of a structured abstract,
// e.g. label "BACKGROUND". Label is empty for unstructured abstracts.
type AbstractSection struct {
	Label string `json:"label,omitempty"`
	Text  string `json:"text"`
}

// Article is the normalized bibliographic record built from one citation
// document. It is constructed once per fetch and never mutated afterwards;
// callers own any caching.
type Article struct {
	PMID     string            `json:"pmid"`
	Title    string            `json:"title"`
	Authors  []Author          `json:"authors"`
	Journal  string            `json:"journal"`
	Year     string            `json:"year,omitempty"`
	Volume   string            `json:"volume,omitempty"`
	Issue    string            `json:"issue,omitempty"`
	Pages    string            `json:"pages,omitempty"`
	DOI      string            `json:"doi,omitempty"`
	Abstract []AbstractSection `json:"abstract,omitempty"`
	Keywords []string          `json:"keywords,omitempty"`
	Mesh     []string          `json:"mesh_terms,omitempty"`
	PMCID    string            `json:"pmcid,omitempty"`
}

// PlainAbstract concatenates all abstract fragments into a single unlabeled
// string, preserving document order.
func (a *Article) PlainAbstract() string {
	var parts []string
	for _, s := range a.Abstract {
		parts = append(parts, s.Text)
	}
	return joinNonEmpty(parts, " ")
}

type FullTextSection struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// FullText is the normalized record for one full-text article body.
// ReferenceCount counts back-matter references; reference content is never
// kept.
type FullText struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Sections       []FullTextSection `json:"sections"`
	Figures        []string          `json:"figures,omitempty"`
	Tables         []string          `json:"tables,omitempty"`
	ReferenceCount int               `json:"reference_count"`
}

// Label is a normalized drug label from either jurisdiction. Sections hold
// at most one entry per code; when a source emits duplicates the last one
// wins.
type Label struct {
	DrugName string    `json:"drug_name"`
	SourceID string    `json:"source_id"`
	Sections []Section `json:"sections"`
	URL      string    `json:"url"`
}

// SectionByCode returns the section carrying the given code, or nil.
func (l *Label) SectionByCode(code string) *Section {
	if l == nil {
		return nil
	}
	for i := range l.Sections {
		if l.Sections[i].Code == code {
			return &l.Sections[i]
		}
	}
	return nil
}

// ComparisonRow pairs the matched sections for one crosswalk topic. A nil
// side means that jurisdiction's label had no section for the topic's code.
type ComparisonRow struct {
	Topic string   `json:"topic"`
	US    *Section `json:"us,omitempty"`
	UK    *Section `json:"uk,omitempty"`
}

type Comparison struct {
	Rows  []ComparisonRow `json:"rows"`
	USURL string          `json:"us_url,omitempty"`
	UKURL string          `json:"uk_url,omitempty"`
}

// DrugApproval is one merged approval entry keyed on the canonical drug
// name. The jurisdiction booleans are sticky: once set by any source they
// are never unset by a later merge.
type DrugApproval struct {
	Name         string `json:"name"`
	BrandName    string `json:"brand_name,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	USApproved   bool   `json:"us_approved"`
	UKApproved   bool   `json:"uk_approved"`
	USAppNumber  string `json:"us_application_number,omitempty"`
	UKProductID  string `json:"uk_product_id,omitempty"`
}

func joinNonEmpty(parts []string, sep string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
