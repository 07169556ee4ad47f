package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentVersion is the preset serialization format version. Documents
// carrying any other version are rejected on decode.
const DocumentVersion = 1

// PresetDocument is the serialized form of a Preset, exchanged with the
// settings store and any other persistence collaborator.
type PresetDocument struct {
	Version int       `json:"version"`
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	Preset  Preset    `json:"preset"`
}

// EncodePreset wraps a preset in a versioned document with a fresh id and
// renders it as indented JSON.
func EncodePreset(p Preset) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("encode preset %q: %w", p.Name, err)
	}

	doc := PresetDocument{
		Version: DocumentVersion,
		ID:      uuid.NewString(),
		SavedAt: time.Now().UTC(),
		Preset:  p,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode preset %q: %w", p.Name, err)
	}

	return data, nil
}

// DecodePreset parses a preset document, checking version and structure
// before any of it can reach an engine.
func DecodePreset(data []byte) (Preset, error) {
	var doc PresetDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Preset{}, fmt.Errorf("decode preset document: %w", err)
	}
	if doc.Version != DocumentVersion {
		return Preset{}, fmt.Errorf("decode preset document: unsupported version %d", doc.Version)
	}
	if err := doc.Preset.validate(); err != nil {
		return Preset{}, fmt.Errorf("decode preset document: %w", err)
	}

	return doc.Preset, nil
}
