// Package kb ranks knowledge-base articles against free text using a
// TF-IDF weighted vector model and cosine similarity.
package kb

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Suggestion is one ranked article.
type Suggestion struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

type indexedArticle struct {
	id     int64
	title  string
	vector map[int]float64 // term index -> l2-normalized tf-idf weight
}

// Engine holds the article index. Builds are exclusive and replace the whole
// index; reads may run concurrently with each other. The index is never
// rebuilt implicitly after a data change; callers trigger rebuilds.
type Engine struct {
	mu       sync.RWMutex
	built    bool
	vocab    map[string]int
	idf      []float64
	articles []indexedArticle
}

// NewEngine returns an empty, unbuilt engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Built reports whether an index has been constructed (including an
// explicitly empty one).
func (e *Engine) Built() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.built
}

// Build constructs the index over the full article snapshot, replacing any
// previous index. An empty snapshot yields an explicitly empty index.
func (e *Engine) Build(articles []domain.KnowledgeArticle) {
	vocab := make(map[string]int)
	docTerms := make([]map[string]int, len(articles))

	for i, article := range articles {
		terms := tokenize(article.Title + ". " + article.Content)
		counts := make(map[string]int, len(terms))
		for _, term := range terms {
			counts[term]++
			if _, ok := vocab[term]; !ok {
				vocab[term] = len(vocab)
			}
		}
		docTerms[i] = counts
	}

	// document frequency per term
	df := make([]int, len(vocab))
	for _, counts := range docTerms {
		for term := range counts {
			df[vocab[term]]++
		}
	}

	// smooth idf: ln((1+N)/(1+df)) + 1
	n := float64(len(articles))
	idf := make([]float64, len(vocab))
	for i, f := range df {
		idf[i] = math.Log((1+n)/(1+float64(f))) + 1
	}

	indexed := make([]indexedArticle, len(articles))
	for i, article := range articles {
		vector := make(map[int]float64, len(docTerms[i]))
		for term, count := range docTerms[i] {
			ti := vocab[term]
			vector[ti] = float64(count) * idf[ti]
		}
		normalize(vector)
		indexed[i] = indexedArticle{id: article.ID, title: article.Title, vector: vector}
	}

	e.mu.Lock()
	e.vocab = vocab
	e.idf = idf
	e.articles = indexed
	e.built = true
	e.mu.Unlock()
}

// Suggest vectorizes the query under the built vocabulary and returns the
// topK articles by cosine similarity, scores strictly non-increasing, ties
// broken by original article order. An unbuilt or empty index yields nil.
func (e *Engine) Suggest(query string, topK int) []Suggestion {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.built || len(e.articles) == 0 || topK <= 0 {
		return nil
	}

	queryVec := make(map[int]float64)
	for _, term := range tokenize(query) {
		ti, ok := e.vocab[term]
		if !ok {
			// terms unseen at build time contribute nothing
			continue
		}
		queryVec[ti] += e.idf[ti]
	}
	normalize(queryVec)

	type ranked struct {
		order int
		score float64
	}
	scores := make([]ranked, len(e.articles))
	for i, article := range e.articles {
		scores[i] = ranked{order: i, score: dot(queryVec, article.vector)}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if topK > len(scores) {
		topK = len(scores)
	}
	out := make([]Suggestion, 0, topK)
	for _, r := range scores[:topK] {
		article := e.articles[r.order]
		out = append(out, Suggestion{ID: article.id, Title: article.title, Score: r.score})
	}
	return out
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < 2 || stopwords[field] {
			continue
		}
		terms = append(terms, field)
	}
	return terms
}

func normalize(vector map[int]float64) {
	var sum float64
	for _, w := range vector {
		sum += w * w
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for ti, w := range vector {
		vector[ti] = w / norm
	}
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for ti, w := range a {
		sum += w * b[ti]
	}
	return sum
}
