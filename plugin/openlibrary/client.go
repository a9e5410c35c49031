// Package openlibrary looks up book metadata on the Open Library search API.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://openlibrary.org"
	coverURLFormat = "https://covers.openlibrary.org/b/id/%d-S.jpg"

	searchLimit = 8
	maxSubjects = 8
)

// Result is one search hit.
type Result struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Year     *int32   `json:"year,omitempty"`
	CoverURL string   `json:"coverUrl,omitempty"`
	Subjects []string `json:"subjects"`
}

// Client queries the Open Library search endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

type searchDoc struct {
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear *int32   `json:"first_publish_year"`
	CoverID          *int64   `json:"cover_i"`
	Subject          []string `json:"subject"`
}

// Search returns up to 8 matches for the query.
func (c *Client) Search(ctx context.Context, query string) ([]*Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", searchLimit))
	params.Set("fields", "title,author_name,first_publish_year,cover_i,subject")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "open library request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("open library search failed: %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}

	results := make([]*Result, 0, len(payload.Docs))
	for _, doc := range payload.Docs {
		result := &Result{
			Title:    doc.Title,
			Authors:  doc.AuthorName,
			Year:     doc.FirstPublishYear,
			Subjects: doc.Subject,
		}
		if result.Authors == nil {
			result.Authors = []string{}
		}
		if result.Subjects == nil {
			result.Subjects = []string{}
		}
		if len(result.Subjects) > maxSubjects {
			result.Subjects = result.Subjects[:maxSubjects]
		}
		if doc.CoverID != nil {
			result.CoverURL = fmt.Sprintf(coverURLFormat, *doc.CoverID)
		}
		results = append(results, result)
	}
	return results, nil
}
