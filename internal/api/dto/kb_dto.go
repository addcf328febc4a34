package dto

// KBIndexRequest adds one article to the knowledge base.
type KBIndexRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// KBIndexResponse confirms the stored article.
type KBIndexResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Indexed bool   `json:"indexed"`
}

// KBQueryRequest searches the knowledge base.
type KBQueryRequest struct {
	Text string `json:"text"`
	TopK int    `json:"top_k"`
}

// KBQueryResponse returns ranked matches.
type KBQueryResponse struct {
	Results []SuggestionView `json:"results"`
}

// KBReindexResponse reports a completed rebuild.
type KBReindexResponse struct {
	Articles int `json:"articles"`
}
