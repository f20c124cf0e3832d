package importer

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// AnswerSet is one OCR/VLM extraction result document: model sections keyed by
// model name, each holding a map of question keys to answers.
type AnswerSet struct {
	Models map[string]ModelSection `json:"models"`
}

// ModelSection holds one model's answers keyed by question key.
type ModelSection struct {
	Questions map[string]Question `json:"questions"`
}

// Question holds one extracted answer. Only the answer string is consumed;
// anything else in the object is ignored.
type Question struct {
	Answer *string `json:"answer"`
}

// ParseAnswerSet decodes an answer-set JSON document.
func ParseAnswerSet(data []byte) (*AnswerSet, error) {
	var set AnswerSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse answer set: %w", err)
	}
	return &set, nil
}

// FirstSection returns the answers of the first model section in key order.
// Multi-model answer sets are not supported yet; the first section wins.
func (s *AnswerSet) FirstSection() (map[string]Question, error) {
	if len(s.Models) == 0 {
		return nil, fmt.Errorf("answer set has no model sections")
	}
	names := make([]string, 0, len(s.Models))
	for name := range s.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return s.Models[names[0]].Questions, nil
}

// Answer returns the answer string for a question key, or nil when the key is
// missing or holds no answer.
func Answer(questions map[string]Question, key string) *string {
	q, ok := questions[key]
	if !ok {
		return nil
	}
	return q.Answer
}

// SourceIDFromFilename derives the scan-batch source id from an answer-set or
// image filename: the token preceding the first underscore of the base name.
// "APV0001_page1_img1.json" yields "APV0001".
func SourceIDFromFilename(name string) string {
	base := filepath.Base(name)
	return strings.SplitN(base, "_", 2)[0]
}

// ImageName recovers the scanned image filename embedded in an answer-set
// filename. Extraction output is named "<image>.<ext>.json", optionally with a
// size suffix on the extension ("APV0001_page22_img1.jpg_w800px.json"), so the
// stem is split on its first dot and the extension truncated at the first
// underscore.
func ImageName(sourceFilename string) string {
	base := filepath.Base(sourceFilename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	frags := strings.SplitN(stem, ".", 2)
	if len(frags) < 2 {
		return stem
	}
	ext := strings.SplitN(frags[1], "_", 2)[0]
	return frags[0] + "." + ext
}
