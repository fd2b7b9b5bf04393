package models

import "slices"

// WordFamily represents a group of words sharing the same rime, e.g. "-ap"
type WordFamily struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Rime        string `json:"rime"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Words       []Word `json:"words"`
}

// Word represents a single flashcard word inside a family
type Word struct {
	Word         string    `json:"word"`
	Prefix       string    `json:"prefix"`
	Meaning      string    `json:"meaning"`
	Phonetic     string    `json:"phonetic"`
	PartOfSpeech string    `json:"partOfSpeech,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Image        string    `json:"image,omitempty"`
	Examples     []Example `json:"examples"`
	RelatedWords []string  `json:"relatedWords"`
}

// Example is an example sentence with its translation
type Example struct {
	EN string `json:"en"`
	ZH string `json:"zh"`
}

// HasWord reports whether word belongs to the family
func (f *WordFamily) HasWord(word string) bool {
	for _, w := range f.Words {
		if w.Word == word {
			return true
		}
	}
	return false
}

// WordTexts returns the family's words in declaration order
func (f *WordFamily) WordTexts() []string {
	texts := make([]string, len(f.Words))
	for i, w := range f.Words {
		texts[i] = w.Word
	}
	return texts
}

// Clone returns a deep copy of the family
func (f *WordFamily) Clone() WordFamily {
	c := *f
	c.Words = make([]Word, len(f.Words))
	for i, w := range f.Words {
		w.Examples = slices.Clone(w.Examples)
		w.RelatedWords = slices.Clone(w.RelatedWords)
		c.Words[i] = w
	}
	return c
}
