package linear

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

// MaxPages is the hard ceiling on pagination. It exists purely as a safety
// valve against a runaway API that keeps reporting hasNextPage.
const MaxPages = 100

// Poster is the single transport capability the paginator needs.
type Poster interface {
	Post(ctx context.Context, query string, variables map[string]any) (*HTTPResponse, error)
}

// PageState is the mutable cursor state of an in-progress pagination run.
type PageState struct {
	Page    int
	HasNext bool
	Cursor  string
}

// NewPageState starts at page 1 with a pending first fetch.
func NewPageState() *PageState {
	return &PageState{Page: 1, HasNext: true}
}

// Advance applies the pageInfo of a fetched page.
func (s *PageState) Advance(info PageInfo) {
	s.HasNext = info.HasNextPage
	s.Cursor = info.EndCursor
	s.Page++
}

// Exceeded reports whether the safety ceiling has been hit.
func (s *PageState) Exceeded() bool {
	return s.Page > MaxPages
}

// FetchAll pages through the issues query until exhaustion, returning every
// node seen in page order. Failure policy is partial-success: a page that
// fails to parse stops pagination and the accumulated issues are returned
// with a warning. A network error or non-200 status on the very first page
// propagates; once data has been accumulated it degrades to a truncation
// warning too.
func FetchAll(ctx context.Context, poster Poster, opts QueryOptions) ([]RawIssue, error) {
	state := NewPageState()
	var issues []RawIssue

	for state.HasNext {
		if state.Exceeded() {
			log.Warn().Int("pages", MaxPages).Msg("Pagination safety limit reached, aborting")
			break
		}

		query := BuildIssuesQuery(opts, state.Cursor)
		resp, err := poster.Post(ctx, query, nil)
		if err != nil {
			if len(issues) == 0 {
				return nil, err
			}
			log.Warn().Err(err).Int("page", state.Page).Int("issues", len(issues)).
				Msg("Request failed mid-pagination, result set is incomplete")
			break
		}

		page := ParsePage(resp)
		if page == nil {
			// A non-200 on the very first page means the whole run failed
			// (bad token, rate limit); surface it instead of an empty set.
			if len(issues) == 0 && resp.StatusCode != http.StatusOK {
				return nil, classifyStatus(resp.StatusCode, resp.Body)
			}
			log.Warn().Int("page", state.Page).Int("issues", len(issues)).
				Msg("Unparseable page, stopping pagination with partial results")
			break
		}

		issues = append(issues, page.Issues...)
		log.Debug().Int("page", state.Page).Int("nodes", len(page.Issues)).
			Bool("hasNext", page.PageInfo.HasNextPage).Msg("Page fetched")
		state.Advance(page.PageInfo)
	}

	return issues, nil
}
