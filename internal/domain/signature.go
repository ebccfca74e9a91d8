package domain

import "time"

// SignatureComponent is one position of a signature scheme, holding an
// ordered set of elements.
type SignatureComponent struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IndexType string `json:"indexType"`
}

// SignatureElement is one selectable value of a signature component.
// Elements may reference parent elements from other components, forming the
// valid signature paths.
type SignatureElement struct {
	ID                   int64     `json:"id"`
	SignatureComponentID int64     `json:"signatureComponentId"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	ElementIndex         string    `json:"index"`
	CreatedOn            time.Time `json:"createdOn"`
	ModifiedOn           time.Time `json:"modifiedOn"`
}

// SignatureElementSearchResult is an element enriched with the name of its
// component, resolved through a join at search time.
type SignatureElementSearchResult struct {
	SignatureElement
	ComponentName string `json:"componentName"`
}
