package parsing

import (
	"strings"
)

var pmcRepeatable = []string{
	"article",
	"sec",
	"p",
	"fig",
	"table-wrap",
	"ref",
}

// ParseFullText converts one PMC efetch XML document (JATS-style markup)
// into a FullText record. It returns ErrNotFound when no article element is
// present.
func ParseFullText(raw []byte) (*FullText, error) {
	root, err := ParseXML(raw)
	if err != nil {
		return nil, err
	}
	h := NewDocumentHandle(root, pmcRepeatable...)

	article := root
	if root.Name != "article" {
		article = root.FindFirst("article")
	}
	if article == nil {
		return nil, ErrNotFound
	}

	ft := &FullText{}

	front := h.One(article, "front")
	meta := h.One(front, "article-meta")
	ft.Title = TreeText(h.One(meta, "title-group").Child("article-title"))
	for _, id := range meta.ChildrenNamed("article-id") {
		if id.Attr("pub-id-type") == "pmc" || id.Attr("pub-id-type") == "pmcid" {
			ft.ID = TreeText(id)
			break
		}
	}

	body := h.One(article, "body")
	if body != nil {
		for _, sec := range h.List(body, "sec") {
			ft.Sections = append(ft.Sections, FullTextSection{
				Title:   TreeText(h.One(sec, "title")),
				Content: sectionContent(h, sec),
			})
		}
		// Floats are placed inconsistently across sources, so captions are
		// collected by an unbounded-depth search independent of sections.
		for _, fig := range body.Find("fig") {
			if caption := floatCaption(fig); caption != "" {
				ft.Figures = append(ft.Figures, caption)
			}
		}
		for _, tw := range body.Find("table-wrap") {
			if caption := floatCaption(tw); caption != "" {
				ft.Tables = append(ft.Tables, caption)
			}
		}
	}

	back := h.One(article, "back")
	if back != nil {
		ft.ReferenceCount = len(back.Find("ref"))
	}

	return ft, nil
}

// sectionContent assembles one flat content string for a top-level section.
// Direct paragraphs come first in document order; each nested sub-section is
// appended under a "## Title" marker and recursed into, so nesting survives
// only textually.
func sectionContent(h *DocumentHandle, sec *Node) string {
	var parts []string
	for _, c := range sec.Children {
		switch c.Name {
		case "p":
			if t := TreeText(c); t != "" {
				parts = append(parts, t)
			}
		case "sec":
			if title := TreeText(h.One(c, "title")); title != "" {
				parts = append(parts, "## "+title)
			}
			if inner := sectionContent(h, c); inner != "" {
				parts = append(parts, inner)
			}
		}
	}
	return strings.Join(parts, "\n\n")
}

// floatCaption renders a figure or table-wrap caption as "label: text" when
// a label exists, or the caption text alone.
func floatCaption(wrap *Node) string {
	label := TreeText(wrap.Child("label"))
	caption := TreeText(wrap.Child("caption"))
	if caption == "" {
		return label
	}
	if label == "" {
		return caption
	}
	return label + ": " + caption
}
