package model

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const fieldIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewFieldID generates an opaque field id in format fld_{nanoid(12)}.
func NewFieldID() (string, error) {
	id, err := gonanoid.Generate(fieldIDAlphabet, 12)
	if err != nil {
		return "", fmt.Errorf("model: generate field id: %w", err)
	}
	return "fld_" + id, nil
}
