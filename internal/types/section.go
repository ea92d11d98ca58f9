package types

// Section is a contiguous run of lines anchored by one heading candidate.
// Its identity is the (Document, HeadingIndex) pair.
type Section struct {
	Document     string `json:"document"`
	Page         int    `json:"page_number"`
	Title        string `json:"section_title"`
	Text         string `json:"text"`
	HeadingIndex int    `json:"-"`
}

// ScoredSection is a section with its relevance scores.
// PreliminaryScore comes from embedding similarity; PreciseScore from the cross-scorer
// and stays nil when precise scoring was skipped or failed.
type ScoredSection struct {
	Section
	PreliminaryScore float64  `json:"preliminary_score"`
	PreciseScore     *float64 `json:"precise_score,omitempty"`

	// Vector is the section embedding; it never leaves the ranking stage.
	Vector []float32 `json:"-"`
	// Order is the position of the section in the merged candidate pool, used to break ties.
	Order int `json:"-"`
}

// Score returns the score final ranking uses: the precise score when present, the preliminary score otherwise.
func (s ScoredSection) Score() float64 {
	if s.PreciseScore != nil {
		return *s.PreciseScore
	}
	return s.PreliminaryScore
}

// RankedSection is a selected section with its 1-based importance rank.
type RankedSection struct {
	ScoredSection
	ImportanceRank int `json:"importance_rank"`
}

// SummarizedSection is the refined text produced for one ranked section.
type SummarizedSection struct {
	Document    string `json:"document"`
	Page        int    `json:"page_number"`
	RefinedText string `json:"refined_text"`
}
