package parsing

import (
	"errors"
	"testing"
)

func TestParseOpenFDAApprovals(t *testing.T) {
	raw := `{"results":[
		{"application_number":"ANDA091664","sponsor_name":"TEVA",
		 "openfda":{"generic_name":["METFORMIN HYDROCHLORIDE"],"manufacturer_name":["Teva Pharmaceuticals USA"]},
		 "products":[{"brand_name":"METFORMIN HYDROCHLORIDE","active_ingredients":[{"name":"METFORMIN HYDROCHLORIDE"}]}]},
		{"application_number":"NDA020357","sponsor_name":"BRISTOL MYERS SQUIBB",
		 "openfda":{},
		 "products":[{"brand_name":"GLUCOPHAGE","active_ingredients":[{"name":"METFORMIN HYDROCHLORIDE"}]}]}
	]}`

	entries, err := ParseOpenFDAApprovals([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	checkCount(t, "Entries", 2, len(entries))

	checkField(t, "Name", "METFORMIN HYDROCHLORIDE", entries[0].Name)
	checkField(t, "USAppNumber", "ANDA091664", entries[0].USAppNumber)
	checkField(t, "Manufacturer", "Teva Pharmaceuticals USA", entries[0].Manufacturer)
	if !entries[0].USApproved {
		t.Error("openFDA entries are US approvals")
	}

	// no openfda block: name falls back to the first active ingredient and
	// manufacturer to the sponsor
	checkField(t, "Fallback Name", "METFORMIN HYDROCHLORIDE", entries[1].Name)
	checkField(t, "Fallback Manufacturer", "BRISTOL MYERS SQUIBB", entries[1].Manufacturer)
	checkField(t, "BrandName", "GLUCOPHAGE", entries[1].BrandName)

	_, err = ParseOpenFDAApprovals([]byte(`{"results":[]}`))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestParseMHRAProducts(t *testing.T) {
	raw := `{"products":[
		{"name":"Metformin 500mg Tablets","productId":"594","authorisationNumber":"PL 12345/0001","companyName":"Aurobindo"},
		{"name":"","productId":"595"}
	]}`

	entries, err := ParseMHRAProducts([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	checkCount(t, "Entries", 1, len(entries))
	checkField(t, "Name", "Metformin 500mg Tablets", entries[0].Name)
	checkField(t, "UKProductID", "594", entries[0].UKProductID)
	checkField(t, "Manufacturer", "Aurobindo", entries[0].Manufacturer)
	if !entries[0].UKApproved {
		t.Error("MHRA entries are UK approvals")
	}

	_, err = ParseMHRAProducts([]byte(`{"products":[]}`))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
