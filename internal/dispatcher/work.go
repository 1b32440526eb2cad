package dispatcher

import "medinfo-go-app/internal/parsing"

// Work is one drug name awaiting a cross-source approval lookup.
type Work struct {
	Name string `json:"name"`
}

// IsValid For example, a method to check if the work is valid
func (w *Work) IsValid() bool {
	return w.Name != ""
}

// Result captures one branch outcome independently: a failed lookup for one
// name never discards the others.
type Result struct {
	Name    string                 `json:"name"`
	Entries []parsing.DrugApproval `json:"entries,omitempty"`
	Err     error                  `json:"-"`
}
