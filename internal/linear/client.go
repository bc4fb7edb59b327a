package linear

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// CacheStore is the read/write surface the client needs from the response
// cache. Implementations must never propagate I/O failures.
type CacheStore interface {
	Get(key string) (json.RawMessage, bool)
	Set(key string, payload any) bool
}

// Client orchestrates the fetch pipeline: cache lookup, pagination on miss,
// cache write-back.
type Client struct {
	transport Poster
	store     CacheStore
}

// NewClient wires a transport and an optional cache store (nil disables
// caching entirely).
func NewClient(transport Poster, store CacheStore) *Client {
	return &Client{transport: transport, store: store}
}

// FetchIssues returns all issues matching opts, from cache when a valid
// same-day entry exists and opts.NoCache is unset.
func (c *Client) FetchIssues(ctx context.Context, opts QueryOptions) ([]RawIssue, error) {
	key := opts.CacheKey()

	if c.store != nil && !opts.NoCache {
		if payload, ok := c.store.Get(key); ok {
			var issues []RawIssue
			if err := json.Unmarshal(payload, &issues); err == nil {
				log.Info().Int("issues", len(issues)).Str("key", key).Msg("Using cached issues")
				return issues, nil
			}
			log.Debug().Str("key", key).Msg("Cached payload not decodable, refetching")
		}
	}

	log.Info().Str("team", opts.Team).Int("pageSize", opts.PageSize).Msg("Requesting issues from Linear")
	issues, err := FetchAll(ctx, c.transport, opts)
	if err != nil {
		return nil, err
	}

	if c.store != nil && !opts.NoCache {
		c.store.Set(key, issues)
	}

	return issues, nil
}
