package extractive

import "paper-digest/internal/utils/text"

// englishStopwords is a compact English stopword list used to filter tokens
// before similarity and frequency scoring.
var englishStopwords = toSet(`a about above after again against all also am an and any are as at
be because been before being below between both but by can could did do does doing down during
each et etc few for from further had has have having he her here hers herself him himself his how
i if in into is it its itself just me more most my myself no nor not now of off on once only or
other our ours ourselves out over own same she should so some such than that the their theirs them
themselves then there these they this those through to too under until up very was we were what
when where which while who whom why will with would you your yours yourself yourselves`)

func toSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range text.Tokenize(words) {
		set[w] = struct{}{}
	}
	return set
}

// contentWords tokenizes s and drops stopwords and single-letter tokens.
func contentWords(s string) []string {
	tokens := text.Tokenize(s)
	out := tokens[:0]
	for _, tok := range tokens {
		if len(tok) < 2 {
			continue
		}
		if _, stop := englishStopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}
