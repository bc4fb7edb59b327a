package linear

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ParsePage normalizes one raw HTTP response into a Page. It returns nil on
// any failure (non-200 status, malformed JSON, GraphQL-level errors, missing
// data.issues); the paginator treats nil as "stop here, keep what we have".
func ParsePage(resp *HTTPResponse) *Page {
	if resp == nil {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Msg("Non-200 response, page discarded")
		return nil
	}

	var envelope struct {
		Data *struct {
			Issues *struct {
				Nodes    []RawIssue `json:"nodes"`
				PageInfo PageInfo   `json:"pageInfo"`
			} `json:"issues"`
		} `json:"data"`
		Errors []graphQLError `json:"errors"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		log.Debug().Err(err).Msg("Response body is not valid JSON, page discarded")
		return nil
	}

	if len(envelope.Errors) > 0 {
		for _, e := range envelope.Errors {
			log.Warn().Str("message", e.Message).Msg("GraphQL error in response")
		}
		return nil
	}

	if envelope.Data == nil || envelope.Data.Issues == nil {
		log.Debug().Msg("Response has no data.issues node, page discarded")
		return nil
	}

	return &Page{
		Issues:   envelope.Data.Issues.Nodes,
		PageInfo: envelope.Data.Issues.PageInfo,
	}
}
