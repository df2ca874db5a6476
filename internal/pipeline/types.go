package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
)

// Word is a single word/token from the transcription service.
type Word struct {
	Text       string  `json:"word"`
	Start      float64 `json:"start_time"`
	End        float64 `json:"end_time"`
	SpeakerTag int     `json:"speaker_tag"`
}

// Section is one utterance group from the transcription service. Sections are
// chronological, as are the words within them.
type Section struct {
	Transcript string `json:"transcript"`
	Words      []Word `json:"words"`
}

// Sentence is the atomic dubbing unit: a speaker- and pause-delimited span of
// speech with its time window. Text starts with the source-language entry and
// gains one entry per target language after translation.
type Sentence struct {
	Text    map[string]string `json:"text"`
	Speaker int               `json:"speaker"`
	Start   float64           `json:"start_time"`
	End     float64           `json:"end_time"`
}

// Duration returns the sentence's time window in seconds.
func (s *Sentence) Duration() float64 {
	return s.End - s.Start
}

// SaveSections writes the raw transcript checkpoint.
func SaveSections(path string, sections []Section) error {
	return saveJSON(path, sections)
}

// LoadSections reads the raw transcript checkpoint.
func LoadSections(path string) ([]Section, error) {
	var sections []Section
	if err := loadJSON(path, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// SaveSentences writes the sentence checkpoint.
func SaveSentences(path string, sentences []Sentence) error {
	return saveJSON(path, sentences)
}

// LoadSentences reads the sentence checkpoint.
func LoadSentences(path string) ([]Sentence, error) {
	var sentences []Sentence
	if err := loadJSON(path, &sentences); err != nil {
		return nil, err
	}
	return sentences, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
