package fetch

import "net/url"

// Upstream source names, used for fetcher identity and cache key prefixes.
const (
	SourcePubMed   = "pubmed"
	SourcePMC      = "pmc"
	SourceDailyMed = "dailymed"
	SourceEMC      = "emc"
	SourceOpenFDA  = "openfda"
	SourceMHRA     = "mhra"
)

const eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

// PubMedArticleURL is the efetch endpoint for one citation document.
func PubMedArticleURL(pmid string) string {
	return eutilsBase + "efetch.fcgi?db=pubmed&retmode=xml&id=" + url.QueryEscape(pmid)
}

// PMCArticleURL is the efetch endpoint for one full-text document.
func PMCArticleURL(pmcid string) string {
	return eutilsBase + "efetch.fcgi?db=pmc&retmode=xml&id=" + url.QueryEscape(pmcid)
}

// DailyMedSearchURL lists structured product labels for a drug name.
func DailyMedSearchURL(drug string) string {
	return "https://dailymed.nlm.nih.gov/dailymed/services/v2/spls.json?drug_name=" + url.QueryEscape(drug)
}

// DailyMedLabelURL fetches one label document by set id.
func DailyMedLabelURL(setID string) string {
	return "https://dailymed.nlm.nih.gov/dailymed/services/v2/spls/" + url.PathEscape(setID) + ".xml"
}

// EMCSearchURL searches medicines.org.uk for a drug name.
func EMCSearchURL(drug string) string {
	return "https://www.medicines.org.uk/emc/search?q=" + url.QueryEscape(drug)
}

// EMCLabelURL fetches one SmPC page by product id.
func EMCLabelURL(productID string) string {
	return "https://www.medicines.org.uk/emc/product/" + url.PathEscape(productID) + "/smpc"
}

// OpenFDAApprovalsURL searches US drug approvals by name.
func OpenFDAApprovalsURL(drug string) string {
	q := `openfda.generic_name:"` + drug + `"+openfda.brand_name:"` + drug + `"`
	return "https://api.fda.gov/drug/drugsfda.json?search=" + url.QueryEscape(q) + "&limit=10"
}

// MHRAProductsURL searches UK product listings by name.
func MHRAProductsURL(drug string) string {
	return "https://products.mhra.gov.uk/api/search?q=" + url.QueryEscape(drug)
}
