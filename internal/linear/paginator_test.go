package linear

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// scriptedPoster replays canned responses in order; the last one repeats.
type scriptedPoster struct {
	responses []*HTTPResponse
	errs      []error
	calls     int
}

func (p *scriptedPoster) Post(ctx context.Context, query string, variables map[string]any) (*HTTPResponse, error) {
	idx := p.calls
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	p.calls++
	var err error
	if idx < len(p.errs) {
		err = p.errs[idx]
	}
	return p.responses[idx], err
}

func pageBody(ids []string, hasNext bool, cursor string) *HTTPResponse {
	nodes := ""
	for i, id := range ids {
		if i > 0 {
			nodes += ","
		}
		nodes += fmt.Sprintf(`{"id":%q}`, id)
	}
	body := fmt.Sprintf(`{"data":{"issues":{"nodes":[%s],"pageInfo":{"hasNextPage":%t,"endCursor":%q}}}}`, nodes, hasNext, cursor)
	return &HTTPResponse{StatusCode: 200, Body: []byte(body)}
}

func TestFetchAll_SinglePage(t *testing.T) {
	poster := &scriptedPoster{responses: []*HTTPResponse{pageBody([]string{"a", "b"}, false, "")}}

	issues, err := FetchAll(context.Background(), poster, NewQueryOptions("", "", "", 250, false, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 2 {
		t.Errorf("expected 2 issues, got %d", len(issues))
	}
	if poster.calls != 1 {
		t.Errorf("expected 1 request, got %d", poster.calls)
	}
}

func TestFetchAll_FollowsCursors(t *testing.T) {
	poster := &scriptedPoster{responses: []*HTTPResponse{
		pageBody([]string{"a"}, true, "c1"),
		pageBody([]string{"b"}, true, "c2"),
		pageBody([]string{"c"}, false, ""),
	}}

	issues, err := FetchAll(context.Background(), poster, NewQueryOptions("", "", "", 250, false, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 3 {
		t.Errorf("expected 3 issues in page order, got %d", len(issues))
	}
	if issues[0].ID != "a" || issues[2].ID != "c" {
		t.Errorf("page order not preserved: %v", issues)
	}
	if poster.calls != 3 {
		t.Errorf("expected 3 requests, got %d", poster.calls)
	}
}

func TestFetchAll_SafetyLimit(t *testing.T) {
	// The API always reports another page; pagination must stop at the ceiling.
	poster := &scriptedPoster{responses: []*HTTPResponse{pageBody([]string{"x"}, true, "loop")}}

	issues, err := FetchAll(context.Background(), poster, NewQueryOptions("", "", "", 250, false, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if poster.calls != MaxPages {
		t.Errorf("expected exactly %d requests, got %d", MaxPages, poster.calls)
	}
	if len(issues) != MaxPages {
		t.Errorf("expected %d accumulated issues, got %d", MaxPages, len(issues))
	}
}

func TestFetchAll_ParseFailureKeepsPartialResults(t *testing.T) {
	poster := &scriptedPoster{responses: []*HTTPResponse{
		pageBody([]string{"a"}, true, "c1"),
		{StatusCode: 200, Body: []byte(`{"errors":[{"message":"boom"}]}`)},
	}}

	issues, err := FetchAll(context.Background(), poster, NewQueryOptions("", "", "", 250, false, false))
	if err != nil {
		t.Fatalf("parse failure must not surface an error, got %v", err)
	}
	if len(issues) != 1 || issues[0].ID != "a" {
		t.Errorf("expected the first page to survive, got %v", issues)
	}
}

func TestFetchAll_FirstPageUnauthorizedPropagates(t *testing.T) {
	poster := &scriptedPoster{responses: []*HTTPResponse{
		{StatusCode: 401, Body: []byte(`{}`)},
	}}

	issues, err := FetchAll(context.Background(), poster, NewQueryOptions("", "", "", 250, false, false))
	if err == nil {
		t.Fatal("a 401 on the first page must fail the fetch, not return an empty set")
	}
	if !strings.Contains(err.Error(), "Unauthorized") {
		t.Errorf("error should mention Unauthorized, got %q", err.Error())
	}
	if len(issues) != 0 {
		t.Errorf("no issues should be returned alongside the error, got %d", len(issues))
	}
}

func TestFetchAll_MidRunServerErrorKeepsPartialResults(t *testing.T) {
	poster := &scriptedPoster{responses: []*HTTPResponse{
		pageBody([]string{"a"}, true, "c1"),
		{StatusCode: 500, Body: []byte(`{}`)},
	}}

	issues, err := FetchAll(context.Background(), poster, NewQueryOptions("", "", "", 250, false, false))
	if err != nil {
		t.Fatalf("mid-run server error should degrade to partial results, got %v", err)
	}
	if len(issues) != 1 || issues[0].ID != "a" {
		t.Errorf("expected the first page to survive, got %v", issues)
	}
}

func TestFetchAll_FirstPageNetworkErrorPropagates(t *testing.T) {
	poster := &scriptedPoster{
		responses: []*HTTPResponse{nil},
		errs:      []error{apiErrorf("Network error: connection refused")},
	}

	_, err := FetchAll(context.Background(), poster, NewQueryOptions("", "", "", 250, false, false))
	if err == nil {
		t.Fatal("expected the first-page network error to propagate")
	}
}

func TestFetchAll_MidRunNetworkErrorKeepsPartialResults(t *testing.T) {
	poster := &scriptedPoster{
		responses: []*HTTPResponse{pageBody([]string{"a"}, true, "c1"), nil},
		errs:      []error{nil, apiErrorf("Network error: timeout")},
	}

	issues, err := FetchAll(context.Background(), poster, NewQueryOptions("", "", "", 250, false, false))
	if err != nil {
		t.Fatalf("mid-run network error should degrade to partial results, got %v", err)
	}
	if len(issues) != 1 {
		t.Errorf("expected 1 issue, got %d", len(issues))
	}
}

func TestPageState(t *testing.T) {
	s := NewPageState()
	if s.Page != 1 || !s.HasNext || s.Cursor != "" {
		t.Fatalf("unexpected initial state: %+v", s)
	}

	s.Advance(PageInfo{HasNextPage: true, EndCursor: "c1"})
	if s.Page != 2 || s.Cursor != "c1" || !s.HasNext {
		t.Errorf("unexpected state after advance: %+v", s)
	}

	s.Page = MaxPages + 1
	if !s.Exceeded() {
		t.Error("page beyond ceiling should report exceeded")
	}
}
