package data

// WordCount is the number of occurrences of one word within a single message.
type WordCount struct {
	Word string `json:"word"`
	Freq int    `json:"freq"`
}

// Scope selects one of the two frequency horizons.
type Scope int

const (
	AllTime Scope = iota
	Rolling24h
)

func (s Scope) table() string {
	if s == Rolling24h {
		return "words_24h"
	}
	return "words"
}
