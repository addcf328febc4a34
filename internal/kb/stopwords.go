package kb

// stopwords are excluded from indexing and queries. Common English function
// words; keeping the list small is fine for helpdesk-sized corpora.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "can": true, "do": true, "for": true,
	"from": true, "has": true, "have": true, "he": true, "her": true,
	"his": true, "how": true, "if": true, "in": true, "is": true, "it": true,
	"its": true, "may": true, "me": true, "my": true, "no": true, "not": true,
	"of": true, "on": true, "or": true, "our": true, "she": true, "so": true,
	"that": true, "the": true, "their": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "to": true, "use": true,
	"via": true, "was": true, "we": true, "were": true, "what": true,
	"when": true, "where": true, "which": true, "who": true, "will": true,
	"with": true, "you": true, "your": true,
}
