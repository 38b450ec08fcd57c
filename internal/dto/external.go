package dto

// LinkupSearchRequest is the body of POST /search.
type LinkupSearchRequest struct {
	Query          string   `json:"q"`
	Depth          string   `json:"depth"`
	OutputType     string   `json:"outputType"`
	FromDate       string   `json:"fromDate,omitempty"`
	IncludeDomains []string `json:"includeDomains,omitempty"`
	MaxResults     int      `json:"maxResults,omitempty"`
}

type LinkupSource struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// LinkupSourcedAnswer is returned for outputType=sourcedAnswer.
type LinkupSourcedAnswer struct {
	Answer  string         `json:"answer"`
	Sources []LinkupSource `json:"sources"`
}

type FastinoRegisterRequest struct {
	Email   string            `json:"email"`
	Purpose string            `json:"purpose"`
	Traits  map[string]string `json:"traits,omitempty"`
}

type FastinoDocument struct {
	Content      string `json:"content"`
	Title        string `json:"title"`
	DocumentType string `json:"document_type"`
	CreatedAt    string `json:"created_at"`
}

type FastinoIngestRequest struct {
	UserID    string            `json:"user_id"`
	Source    string            `json:"source"`
	Documents []FastinoDocument `json:"documents"`
	Options   map[string]bool   `json:"options,omitempty"`
}

type FastinoQueryRequest struct {
	UserID   string `json:"user_id"`
	Question string `json:"question"`
	UseCache bool   `json:"use_cache"`
}

type FastinoQueryResponse struct {
	Answer string `json:"answer"`
}

type FastinoSummaryResponse struct {
	Summary string `json:"summary"`
}
