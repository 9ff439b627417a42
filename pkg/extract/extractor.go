// Package extract defines the named-entity extraction contract and an HTTP
// client for the external NER service. The screener never extracts entities
// itself; it consumes them ready-made.
package extract

import (
	"context"
	"errors"
)

// ErrExtract is returned when entity extraction fails.
var ErrExtract = errors.New("entity extraction failed")

// Entity types on the NER wire format. Anything else is screened out early.
const (
	TypePerson       = "PER"
	TypeOrganization = "ORG"
)

// Entity is a named mention extracted from text. Consumed read-only.
type Entity struct {
	// Name is the surface form as it appeared in the text.
	Name string `json:"name"`

	// NormName is the extractor's normalized (lemmatized) form.
	NormName string `json:"norm_name"`

	// Type is the entity class tag (TypePerson, TypeOrganization or other).
	Type string `json:"type"`

	// Context is the snippet surrounding the mention.
	Context string `json:"context"`
}

// Extractor extracts named entities from plain text.
type Extractor interface {
	// Extract returns the entities found in text, in document order.
	Extract(ctx context.Context, text string) ([]Entity, error)

	// Close releases any resources held by the extractor.
	Close() error
}
