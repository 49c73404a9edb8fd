package linkcheck

import (
	"sort"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// Validator classifies every cross-document reference in a document set
// as resolvable or broken and reports section documents no resolvable
// reference points at.
type Validator struct {
	extractor Extractor
}

// NewValidator creates a validator. A nil extractor selects the default
// composite markdown/HTML extractor.
func NewValidator(extractor Extractor) *Validator {
	if extractor == nil {
		extractor = NewCompositeExtractor()
	}
	return &Validator{extractor: extractor}
}

// Validate extracts references from every document body and resolves
// each target against the known document id set.
//
// A section is orphaned when no resolvable reference anywhere in the
// set, hub or section, has it as a target. Unresolved references are
// reported, never silently dropped.
func (v *Validator) Validate(docs []*types.Document) *types.ValidationResult {
	known := make(map[string]bool, len(docs))
	for _, doc := range docs {
		known[doc.ID] = true
	}

	result := &types.ValidationResult{
		Resolvable: []types.Reference{},
		Broken:     []types.Reference{},
		Orphaned:   []string{},
	}

	inbound := make(map[string]int)

	for _, doc := range docs {
		refs, warnings := v.extractor.Extract(doc)
		result.ParseWarnings = append(result.ParseWarnings, warnings...)

		for _, ref := range refs {
			if known[ref.TargetID] {
				result.Resolvable = append(result.Resolvable, ref)
				inbound[ref.TargetID]++
			} else {
				result.Broken = append(result.Broken, ref)
			}
		}
	}

	for _, doc := range docs {
		if doc.Role == types.RoleSection && inbound[doc.ID] == 0 {
			result.Orphaned = append(result.Orphaned, doc.ID)
		}
	}
	sort.Strings(result.Orphaned)

	return result
}
