package domain

// KnowledgeArticle is an immutable snapshot of a knowledge-base entry used to
// build the retrieval index.
type KnowledgeArticle struct {
	ID      int64
	Title   string
	Content string
	Tags    []string
}
