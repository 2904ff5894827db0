package tokenizer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/webHikari/telegram-word-cloud/pkg/data"
)

// nonWord matches everything that is not an ASCII word character, whitespace
// or a Cyrillic letter. Matches are replaced with spaces before splitting.
var nonWord = regexp.MustCompile(`[^\w\sа-яёА-ЯЁ]`)

// stopWords is a fixed set of English and Russian function words.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "on": {},
	"in": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {},

	"на": {}, "с": {}, "в": {}, "по": {}, "о": {}, "об": {}, "от": {},
	"до": {}, "за": {}, "из": {}, "к": {}, "у": {}, "без": {}, "под": {},
	"над": {}, "при": {}, "про": {}, "не": {}, "и": {}, "или": {}, "но": {},
	"да": {}, "же": {}, "ли": {}, "бы": {}, "б": {},
	"его": {}, "её": {}, "наш": {}, "ваш": {}, "их": {}, "этот": {}, "тот": {},
}

// Tokenize turns message text into word counts, most frequent first.
// Equal frequencies keep the order of first occurrence in the message.
// An empty result means the message has nothing worth recording.
func Tokenize(text string) []data.WordCount {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")

	freqs := make(map[string]int)
	var order []string
	for _, token := range strings.Fields(cleaned) {
		if _, stop := stopWords[token]; stop {
			continue
		}
		if _, seen := freqs[token]; !seen {
			order = append(order, token)
		}
		freqs[token]++
	}

	counts := make([]data.WordCount, 0, len(order))
	for _, word := range order {
		counts = append(counts, data.WordCount{Word: word, Freq: freqs[word]})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Freq > counts[j].Freq
	})
	return counts
}
