// Package summarize reduces a section body to its most representative sentences.
package summarize

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Splitter splits text into sentences in reading order.
type Splitter interface {
	Split(text string) []string
}

// PunktSplitter segments English text with the Punkt model, which handles
// abbreviations such as "e.g." and "St." without breaking the sentence.
type PunktSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPunktSplitter loads the bundled English Punkt model.
func NewPunktSplitter() (*PunktSplitter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence model: %w", err)
	}
	return &PunktSplitter{tokenizer: tokenizer}, nil
}

// Split returns the non-blank sentences of text.
func (p *PunktSplitter) Split(text string) []string {
	var out []string
	for _, s := range p.tokenizer.Tokenize(text) {
		if trimmed := strings.TrimSpace(s.Text); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
