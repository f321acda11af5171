// Package ids defines the opaque identifier types shared across the schema
// kernel: entity, field, and relationship ids, plus translation keys.
package ids

import (
	"fmt"
	"strings"
)

// EntityId identifies an Entity within a schema. Opaque, non-empty, trimmed.
type EntityId string

// FieldId identifies a Field within its owning Entity. Opaque, non-empty, trimmed.
type FieldId string

// RelationshipId identifies a Relationship within a schema. Opaque, non-empty, trimmed.
type RelationshipId string

// SchemaId identifies a whole schema aggregate, the unit a repository
// loads, saves, exports, and imports. Opaque, non-empty, trimmed.
type SchemaId string

// TranslationKey is a lookup key for the external translation service. It is
// never a display string itself.
type TranslationKey string

// NewEntityId trims and validates s, returning a non-empty EntityId.
func NewEntityId(s string) (EntityId, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", fmt.Errorf("entity id must not be empty")
	}
	return EntityId(t), nil
}

// NewFieldId trims and validates s, returning a non-empty FieldId.
func NewFieldId(s string) (FieldId, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", fmt.Errorf("field id must not be empty")
	}
	return FieldId(t), nil
}

// NewRelationshipId trims and validates s, returning a non-empty RelationshipId.
func NewRelationshipId(s string) (RelationshipId, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", fmt.Errorf("relationship id must not be empty")
	}
	return RelationshipId(t), nil
}

// NewSchemaId trims and validates s, returning a non-empty SchemaId.
func NewSchemaId(s string) (SchemaId, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", fmt.Errorf("schema id must not be empty")
	}
	return SchemaId(t), nil
}

// NewTranslationKey trims and validates s, returning a non-empty TranslationKey.
func NewTranslationKey(s string) (TranslationKey, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", fmt.Errorf("translation key must not be empty")
	}
	return TranslationKey(t), nil
}

func (e EntityId) String() string       { return string(e) }
func (f FieldId) String() string        { return string(f) }
func (r RelationshipId) String() string { return string(r) }
func (s SchemaId) String() string       { return string(s) }
func (t TranslationKey) String() string { return string(t) }
