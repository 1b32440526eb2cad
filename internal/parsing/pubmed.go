package parsing

import (
	"log"
	"strings"
)

// Element names in PubMed efetch XML that are always sequences, no matter
// how many occurrences a given citation serialized.
var pubmedRepeatable = []string{
	"PubmedArticle",
	"Author",
	"AbstractText",
	"MeshHeading",
	"KeywordList",
	"Keyword",
	"ArticleId",
	"PublicationType",
}

// ParsePubMedArticle converts one PubMed efetch XML document into an
// Article. It returns ErrNotFound when the PubmedArticleSet wrapper is
// absent or contains zero articles.
func ParsePubMedArticle(raw []byte) (*Article, error) {
	root, err := ParseXML(raw)
	if err != nil {
		return nil, err
	}
	if root.Name != "PubmedArticleSet" {
		return nil, ErrNotFound
	}
	h := NewDocumentHandle(root, pubmedRepeatable...)

	articles := h.List(root, "PubmedArticle")
	if len(articles) == 0 {
		return nil, ErrNotFound
	}
	entry := articles[0]

	cit := h.One(entry, "MedlineCitation")
	if cit == nil {
		return nil, ErrNotFound
	}
	art := h.One(cit, "Article")

	a := &Article{
		PMID:  TreeText(h.One(cit, "PMID")),
		Title: TreeText(h.One(art, "ArticleTitle")),
	}

	journal := h.One(art, "Journal")
	a.Journal = TreeText(h.One(journal, "Title"))
	issue := h.One(journal, "JournalIssue")
	a.Volume = TreeText(h.One(issue, "Volume"))
	a.Issue = TreeText(h.One(issue, "Issue"))
	a.Year = pubYear(h.One(issue, "PubDate"))
	a.Pages = TreeText(h.One(h.One(art, "Pagination"), "MedlinePgn"))

	authorList := h.One(art, "AuthorList")
	if authorList != nil {
		for _, node := range h.List(authorList, "Author") {
			if author, ok := parseAuthor(h, node); ok {
				a.Authors = append(a.Authors, author)
			}
		}
	}

	abstract := h.One(art, "Abstract")
	if abstract != nil {
		for _, frag := range h.List(abstract, "AbstractText") {
			text := TreeText(frag)
			if text == "" {
				continue
			}
			a.Abstract = append(a.Abstract, AbstractSection{
				Label: frag.Attr("Label"),
				Text:  text,
			})
		}
	}

	pubmedData := h.One(entry, "PubmedData")
	idList := h.One(pubmedData, "ArticleIdList")
	if idList != nil {
		for _, id := range h.List(idList, "ArticleId") {
			switch strings.ToLower(id.Attr("IdType")) {
			case "doi":
				if a.DOI == "" {
					a.DOI = stripDOIPrefix(TreeText(id))
				}
			case "pmc":
				if a.PMCID == "" {
					a.PMCID = TreeText(id)
				}
			}
		}
	}

	meshList := h.One(cit, "MeshHeadingList")
	if meshList != nil {
		for _, heading := range h.List(meshList, "MeshHeading") {
			term := TreeText(h.One(heading, "DescriptorName"))
			if term != "" {
				a.Mesh = append(a.Mesh, term)
			}
		}
	}

	for _, kwList := range h.List(cit, "KeywordList") {
		for _, kw := range h.List(kwList, "Keyword") {
			term := TreeText(kw)
			if term != "" {
				a.Keywords = append(a.Keywords, term)
			}
		}
	}

	if len(a.Authors) == 0 {
		log.Printf("No authors parsed for PMID %s\n", a.PMID)
	}
	return a, nil
}

// parseAuthor prefers surname + given name, falls back to surname +
// initials, and finally to a collective group name as a single entry.
func parseAuthor(h *DocumentHandle, node *Node) (Author, bool) {
	last := TreeText(h.One(node, "LastName"))
	fore := TreeText(h.One(node, "ForeName"))
	initials := TreeText(h.One(node, "Initials"))
	if last != "" {
		return Author{LastName: last, ForeName: fore, Initials: initials}, true
	}
	if collective := TreeText(h.One(node, "CollectiveName")); collective != "" {
		return Author{CollectiveName: collective}, true
	}
	return Author{}, false
}

// pubYear reads the publication year, falling back to the leading year of a
// MedlineDate range like "2019 Nov-Dec".
func pubYear(pubDate *Node) string {
	if y := TreeText(pubDate.Child("Year")); y != "" {
		return y
	}
	md := TreeText(pubDate.Child("MedlineDate"))
	if len(md) >= 4 {
		return md[:4]
	}
	return ""
}

func stripDOIPrefix(doi string) string {
	doi = strings.TrimSpace(doi)
	if len(doi) >= 4 && strings.EqualFold(doi[:4], "doi:") {
		doi = strings.TrimSpace(doi[4:])
	}
	return doi
}
