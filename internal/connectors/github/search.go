package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

// textMatchMediaType asks the search API to include text_matches.
const textMatchMediaType = "application/vnd.github.v3.text-match+json"

// Ensure Client implements the interface.
var _ driven.CodeSearcher = (*Client)(nil)

// codeSearchResponse mirrors the search/code payload. go-github's CodeResult
// drops the relevance score, so the response is decoded here.
type codeSearchResponse struct {
	TotalCount        int              `json:"total_count"`
	IncompleteResults bool             `json:"incomplete_results"`
	Items             []codeSearchItem `json:"items"`
}

type codeSearchItem struct {
	Name        string          `json:"name"`
	Path        string          `json:"path"`
	SHA         string          `json:"sha"`
	URL         string          `json:"url"`
	HTMLURL     string          `json:"html_url"`
	Score       float64         `json:"score"`
	Repository  gh.Repository   `json:"repository"`
	TextMatches []*gh.TextMatch `json:"text_matches"`
}

// SearchCode requests one page of code search results with text matches.
func (c *Client) SearchCode(ctx context.Context, req domain.SearchRequest) (*domain.SearchPage, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("per_page", strconv.Itoa(req.PerPage))
	params.Set("page", strconv.Itoa(req.Page))

	httpReq, err := c.gh.NewRequest("GET", "search/code?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("Accept", textMatchMediaType)

	var body codeSearchResponse
	resp, err := c.gh.Do(ctx, httpReq, &body)
	if err != nil {
		return nil, wrapError(err, "search code")
	}

	page := &domain.SearchPage{
		Items: make([]domain.SearchResultItem, 0, len(body.Items)),
	}
	for _, item := range body.Items {
		page.Items = append(page.Items, item.toDomain())
	}
	if resp != nil && resp.Response != nil {
		if quota, ok := resourceFromHeader(resp.Header, domain.ResourceCodeSearch); ok {
			page.Quota = &quota
		}
	}
	return page, nil
}

func (i codeSearchItem) toDomain() domain.SearchResultItem {
	htmlURL := i.HTMLURL
	if htmlURL == "" {
		htmlURL = i.URL
	}
	return domain.SearchResultItem{
		Repository: i.Repository.GetFullName(),
		Path:       i.Path,
		HTMLURL:    htmlURL,
		Snippet:    firstFragment(i.TextMatches),
		SHA:        i.SHA,
		Score:      i.Score,
	}
}

// firstFragment returns the first match text of the first text match group.
func firstFragment(matches []*gh.TextMatch) string {
	if len(matches) == 0 || matches[0] == nil || len(matches[0].Matches) == 0 {
		return ""
	}
	return matches[0].Matches[0].GetText()
}
