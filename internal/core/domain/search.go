package domain

// Search page size bounds enforced by the code search API.
const (
	MinPerPage = 1
	MaxPerPage = 100
)

// SearchRequest asks for one page of code search results.
type SearchRequest struct {
	Query   string
	PerPage int
	Page    int
}

// SearchResultItem is a single code search hit. Treat as immutable.
type SearchResultItem struct {
	// Repository is the full "owner/name" of the repository.
	Repository string

	// Path is the repository-relative file path.
	Path string

	// HTMLURL links to the file on the web (falls back to the API URL).
	HTMLURL string

	// Snippet is the first text-match fragment, or empty.
	Snippet string

	SHA   string
	Score float64
}

// SearchPage is one page of results plus the quota metadata
// carried by the response.
type SearchPage struct {
	Items []SearchResultItem

	// Quota mirrors the rate limit headers, nil when absent.
	Quota *RateLimitResource
}

// StopReason explains why pagination ended.
type StopReason string

// Pagination stop reasons.
const (
	StopExhausted  StopReason = "exhausted"
	StopShortPage  StopReason = "short_page"
	StopMaxResults StopReason = "max_results"
	StopError      StopReason = "error"
)

// SearchOutcome is the result of paginating one dork.
type SearchOutcome struct {
	// Items are in server order and never exceed the requested maximum.
	Items []SearchResultItem

	// Pages counts successful page responses.
	Pages int

	Stop StopReason
}
