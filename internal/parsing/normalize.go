package parsing

import (
	"regexp"
	"strings"
)

// manufacturerSepRe matches the separator product feeds put between a drug
// name and its manufacturer, e.g. "METFORMIN ... - TEVA PHARMACEUTICALS".
var manufacturerSepRe = regexp.MustCompile(`\s+[-–—]\s+|\s*\(`)

// dosageFormWords is the fixed list of dosage-form noise words stripped
// from display names, matched whole-word only. Plurals are matched by an
// optional trailing "s".
var dosageFormWords = []string{
	"tablet", "capsule", "injection", "solution", "suspension", "syrup",
	"cream", "ointment", "gel", "lotion", "spray", "patch", "inhaler",
	"suppository", "drop", "lozenge", "powder", "granule", "sachet",
	"film-coated", "chewable", "extended-release", "oral", "topical",
}

// saltFormWords is the fixed list of salt/hydrate suffixes stripped after
// dosage forms, matched whole-word only.
var saltFormWords = []string{
	"hydrochloride", "hcl", "sodium", "calcium", "potassium", "magnesium",
	"sulfate", "sulphate", "tartrate", "bitartrate", "citrate", "maleate",
	"mesylate", "besylate", "tosylate", "succinate", "fumarate", "acetate",
	"phosphate", "bromide", "chloride", "nitrate", "monohydrate",
	"dihydrate", "trihydrate", "hemihydrate",
}

var (
	dosageFormRe  = wordListRegexp(dosageFormWords, true)
	saltFormRe    = wordListRegexp(saltFormWords, false)
	nonAlphaNumRe = regexp.MustCompile(`[^a-z0-9 ]+`)
	multiSpacesRe = regexp.MustCompile(`\s+`)
)

func wordListRegexp(words []string, plural bool) *regexp.Regexp {
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	suffix := ""
	if plural {
		suffix = "s?"
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(escaped, "|") + `)` + suffix + `\b`)
}

// NormalizeDrugName maps a raw source display name to the canonical key
// used to merge records across independent sources. Two names normalizing
// to the same key are treated as the same drug. This is a heuristic:
// distinct salts marketed as separate products will conflate, which is the
// accepted precision/recall tradeoff for cross-source matching.
func NormalizeDrugName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return ""
	}
	if loc := manufacturerSepRe.FindStringIndex(name); loc != nil {
		name = name[:loc[0]]
	}
	name = dosageFormRe.ReplaceAllString(name, " ")
	name = saltFormRe.ReplaceAllString(name, " ")
	name = nonAlphaNumRe.ReplaceAllString(name, " ")
	name = multiSpacesRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// MergeApprovals folds per-source approval entries into one entry per
// canonical name, preserving first-seen order. Jurisdiction flags are
// sticky: once a key has US or UK approval recorded, a later entry never
// clears it. Identifier and brand fields are filled first-come.
func MergeApprovals(entries []DrugApproval) []DrugApproval {
	var order []string
	byKey := make(map[string]*DrugApproval)

	for _, e := range entries {
		key := NormalizeDrugName(e.Name)
		if key == "" {
			continue
		}
		cur, ok := byKey[key]
		if !ok {
			merged := e
			merged.Name = key
			byKey[key] = &merged
			order = append(order, key)
			continue
		}
		cur.USApproved = cur.USApproved || e.USApproved
		cur.UKApproved = cur.UKApproved || e.UKApproved
		if cur.BrandName == "" {
			cur.BrandName = e.BrandName
		}
		if cur.Manufacturer == "" {
			cur.Manufacturer = e.Manufacturer
		}
		if cur.USAppNumber == "" {
			cur.USAppNumber = e.USAppNumber
		}
		if cur.UKProductID == "" {
			cur.UKProductID = e.UKProductID
		}
	}

	out := make([]DrugApproval, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}
