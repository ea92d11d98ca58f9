package selection

import (
	"fmt"
	"math"

	"github.com/gayatri1064/summary-extractor/internal/types"
)

const (
	// DefaultTopK is the number of sections in a digest
	DefaultTopK = 5
	// DefaultPerDocumentCap bounds how many sections one document may contribute
	DefaultPerDocumentCap = 3
	// DefaultDuplicateThreshold is the cosine similarity at which two sections count as duplicates
	DefaultDuplicateThreshold = 0.85
)

// Constraints bound the greedy selection.
//
// A non-positive PerDocumentCap means no cap. A DuplicateThreshold above 1 disables
// the duplicate veto.
type Constraints struct {
	TopK               int
	PerDocumentCap     int
	DuplicateThreshold float64
}

// DefaultConstraints returns the default selection bounds.
func DefaultConstraints() Constraints {
	return Constraints{
		TopK:               DefaultTopK,
		PerDocumentCap:     DefaultPerDocumentCap,
		DuplicateThreshold: DefaultDuplicateThreshold,
	}
}

// Validate reports constraints that cannot be satisfied meaningfully.
func (c Constraints) Validate() error {
	if c.TopK < 0 {
		return &Error{Message: fmt.Sprintf("top_k must be >= 0, got %d", c.TopK)}
	}
	if math.IsNaN(c.DuplicateThreshold) || c.DuplicateThreshold < -1 {
		return &Error{Message: fmt.Sprintf("duplicate threshold must be >= -1, got %v", c.DuplicateThreshold)}
	}
	return nil
}

// State is the accumulator threaded through the selection fold.
type State struct {
	Selected    []types.ScoredSection
	PerDocument map[string]int
	Vectors     [][]float32
}

// NewState returns an empty selection state.
func NewState() State {
	return State{PerDocument: make(map[string]int)}
}

// Full reports whether the state already holds TopK sections.
func (s State) Full(c Constraints) bool {
	return len(s.Selected) >= c.TopK
}

// Admit reports whether candidate may join the selection: the state has room,
// its document is under the cap, and it is not a near duplicate of anything selected.
func (s State) Admit(c Constraints, candidate types.ScoredSection) bool {
	if s.Full(c) {
		return false
	}
	if c.PerDocumentCap > 0 && s.PerDocument[candidate.Document] >= c.PerDocumentCap {
		return false
	}
	if len(s.Vectors) > 0 && maxSimilarity(candidate.Vector, s.Vectors) >= c.DuplicateThreshold {
		return false
	}
	return true
}

// Step returns the state after considering one candidate. The input state is not modified.
func (s State) Step(c Constraints, candidate types.ScoredSection) State {
	if !s.Admit(c, candidate) {
		return s
	}

	perDoc := make(map[string]int, len(s.PerDocument)+1)
	for doc, n := range s.PerDocument {
		perDoc[doc] = n
	}
	perDoc[candidate.Document]++

	return State{
		Selected:    append(s.Selected[:len(s.Selected):len(s.Selected)], candidate),
		PerDocument: perDoc,
		Vectors:     append(s.Vectors[:len(s.Vectors):len(s.Vectors)], candidate.Vector),
	}
}

// Reduce folds sorted candidates left to right into a selection state,
// stopping once TopK sections are admitted.
func Reduce(c Constraints, sorted []types.ScoredSection) State {
	state := NewState()
	for _, candidate := range sorted {
		if state.Full(c) {
			break
		}
		state = state.Step(c, candidate)
	}
	return state
}

// SelectDiverse sorts candidates by effective score and greedily admits them under c.
// Ranks follow admission order starting at 1. Embedding vectors are cleared from the result.
// Fewer than TopK sections are returned when not enough qualify; empty input yields nil.
func SelectDiverse(candidates []types.ScoredSection, c Constraints) []types.RankedSection {
	if len(candidates) == 0 || c.TopK <= 0 {
		return nil
	}

	state := Reduce(c, SortByEffectiveScore(candidates))

	ranked := make([]types.RankedSection, len(state.Selected))
	for i, sec := range state.Selected {
		sec.Vector = nil
		ranked[i] = types.RankedSection{ScoredSection: sec, ImportanceRank: i + 1}
	}
	return ranked
}
