package parsing

import (
	"encoding/json"
	"fmt"
)

type openFDAResponse struct {
	Results []struct {
		ApplicationNumber string `json:"application_number"`
		SponsorName       string `json:"sponsor_name"`
		OpenFDA           struct {
			BrandName        []string `json:"brand_name"`
			GenericName      []string `json:"generic_name"`
			ManufacturerName []string `json:"manufacturer_name"`
		} `json:"openfda"`
		Products []struct {
			BrandName         string `json:"brand_name"`
			ActiveIngredients []struct {
				Name string `json:"name"`
			} `json:"active_ingredients"`
		} `json:"products"`
	} `json:"results"`
}

// ParseOpenFDAApprovals converts an openFDA drugsfda response into
// US-approved entries, one per application. Entries carry the raw display
// names; callers merge them through MergeApprovals.
func ParseOpenFDAApprovals(raw []byte) ([]DrugApproval, error) {
	var resp openFDAResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parsing openfda response: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, ErrNotFound
	}

	var out []DrugApproval
	for _, r := range resp.Results {
		e := DrugApproval{
			USApproved:  true,
			USAppNumber: r.ApplicationNumber,
		}
		if len(r.OpenFDA.GenericName) > 0 {
			e.Name = r.OpenFDA.GenericName[0]
		}
		if len(r.Products) > 0 {
			e.BrandName = r.Products[0].BrandName
			if e.Name == "" && len(r.Products[0].ActiveIngredients) > 0 {
				e.Name = r.Products[0].ActiveIngredients[0].Name
			}
		}
		if len(r.OpenFDA.ManufacturerName) > 0 {
			e.Manufacturer = r.OpenFDA.ManufacturerName[0]
		} else {
			e.Manufacturer = r.SponsorName
		}
		if e.Name == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type mhraResponse struct {
	Products []struct {
		Name                string `json:"name"`
		ProductID           string `json:"productId"`
		AuthorisationNumber string `json:"authorisationNumber"`
		CompanyName         string `json:"companyName"`
	} `json:"products"`
}

// ParseMHRAProducts converts a UK products search response into UK-approved
// entries.
func ParseMHRAProducts(raw []byte) ([]DrugApproval, error) {
	var resp mhraResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parsing mhra response: %w", err)
	}
	if len(resp.Products) == 0 {
		return nil, ErrNotFound
	}

	var out []DrugApproval
	for _, p := range resp.Products {
		if p.Name == "" {
			continue
		}
		out = append(out, DrugApproval{
			Name:         p.Name,
			Manufacturer: p.CompanyName,
			UKApproved:   true,
			UKProductID:  p.ProductID,
		})
	}
	return out, nil
}
