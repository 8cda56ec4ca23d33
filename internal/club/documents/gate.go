// Package documents decides whether a club's paperwork is complete enough
// for affiliation. Pure functions over the club's document slots; no store
// access and no side effects.
package documents

import (
	"affilia/internal/club/models"
)

// Missing returns every tracked document slot that is empty for the club,
// in reporting order.
func Missing(club *models.Club) []models.DocumentType {
	var missing []models.DocumentType
	for _, t := range models.AllDocumentTypes {
		if !club.HasDocument(t) {
			missing = append(missing, t)
		}
	}
	return missing
}

// MissingCore returns the empty core slots. A non-empty result blocks
// affiliation.
func MissingCore(club *models.Club) []models.DocumentType {
	var missing []models.DocumentType
	for _, t := range models.CoreDocumentTypes {
		if !club.HasDocument(t) {
			missing = append(missing, t)
		}
	}
	return missing
}

// CanAffiliate reports whether the club's core documents are complete.
// Optional slots never block affiliation.
func CanAffiliate(club *models.Club) bool {
	return len(MissingCore(club)) == 0
}

// MissingCoreError carries the specific core slots that block affiliation
// so entry points can report them to the caller.
type MissingCoreError struct {
	Missing []models.DocumentType
}

func (e *MissingCoreError) Error() string {
	msg := "missing core affiliation documents:"
	for _, t := range e.Missing {
		msg += " " + string(t)
	}
	return msg
}
