package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// term is one non-zero entry of a sparse TF-IDF row.
type term struct {
	id     int
	weight float64
}

// tokenize lower-cases s and keeps runs of two or more letters or digits,
// so "Sci-Fi|Film-Noir" becomes [sci fi film noir].
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

// vectorize builds L2-normalised TF-IDF rows with smooth idf:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// Term ids are assigned in lexical order. A document without tokens gets an
// empty row.
func vectorize(docs []string) (rows [][]term, vocab []string) {
	tokens := make([][]string, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		tokens[i] = tokenize(d)
		seen := make(map[string]struct{}, len(tokens[i]))
		for _, t := range tokens[i] {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	vocab = make([]string, 0, len(df))
	for t := range df {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)
	ids := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	n := float64(len(docs))
	for i, t := range vocab {
		ids[t] = i
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	rows = make([][]term, len(docs))
	for i, toks := range tokens {
		tf := make(map[int]float64, len(toks))
		for _, t := range toks {
			tf[ids[t]]++
		}
		row := make([]term, 0, len(tf))
		var norm float64
		for id, c := range tf {
			w := c * idf[id]
			row = append(row, term{id: id, weight: w})
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j].weight /= norm
			}
		}
		sort.Slice(row, func(a, b int) bool { return row[a].id < row[b].id })
		rows[i] = row
	}
	return rows, vocab
}

// dot of two id-sorted sparse rows. Rows are unit length, so this is their
// cosine similarity.
func dot(a, b []term) float64 {
	var s float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].id == b[j].id:
			s += a[i].weight * b[j].weight
			i++
			j++
		case a[i].id < b[j].id:
			i++
		default:
			j++
		}
	}
	return s
}
