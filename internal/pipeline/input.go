package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gayatri1064/summary-extractor/internal/schemas"
)

// Input is the run manifest: the documents to read plus the persona and the job.
type Input struct {
	ChallengeInfo map[string]any `json:"challenge_info,omitempty"`
	Documents     []Document     `json:"documents"`
	Persona       Persona        `json:"persona"`
	JobToBeDone   JobToBeDone    `json:"job_to_be_done"`
}

// Document names one input PDF, relative to the data directory.
type Document struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

// Persona describes the reader.
type Persona struct {
	Role string `json:"role"`
}

// JobToBeDone is the reader's goal.
type JobToBeDone struct {
	Task string `json:"task"`
}

// Filenames returns the document file names in manifest order.
func (in *Input) Filenames() []string {
	names := make([]string, len(in.Documents))
	for i, d := range in.Documents {
		names[i] = d.Filename
	}
	return names
}

// InputError represents an unreadable or invalid manifest
type InputError struct {
	Path    string
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("input %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("input %s: %s", e.Path, e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// LoadInput reads and validates a manifest file.
func LoadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputError{Path: path, Message: "failed to read manifest", Cause: err}
	}
	in, err := ParseInput(data)
	if err != nil {
		if ie, ok := err.(*InputError); ok {
			ie.Path = path
		}
		return nil, err
	}
	return in, nil
}

// ParseInput decodes a manifest and checks it against the input schema.
// Persona, job and file names are trimmed; blank values are rejected.
func ParseInput(data []byte) (*Input, error) {
	if err := schemas.ValidateInput(data); err != nil {
		return nil, &InputError{Path: "(inline)", Message: "manifest does not match schema", Cause: err}
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, &InputError{Path: "(inline)", Message: "failed to parse manifest JSON", Cause: err}
	}

	in.Persona.Role = strings.TrimSpace(in.Persona.Role)
	in.JobToBeDone.Task = strings.TrimSpace(in.JobToBeDone.Task)
	if in.Persona.Role == "" {
		return nil, &InputError{Path: "(inline)", Message: "persona role is blank"}
	}
	if in.JobToBeDone.Task == "" {
		return nil, &InputError{Path: "(inline)", Message: "job to be done is blank"}
	}

	seen := make(map[string]bool, len(in.Documents))
	for i := range in.Documents {
		name := strings.TrimSpace(in.Documents[i].Filename)
		if name == "" {
			return nil, &InputError{Path: "(inline)", Message: fmt.Sprintf("document %d has a blank filename", i)}
		}
		if seen[name] {
			return nil, &InputError{Path: "(inline)", Message: fmt.Sprintf("document %s is listed twice", name)}
		}
		seen[name] = true
		in.Documents[i].Filename = name
	}
	return &in, nil
}
