package linear

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultPageSize is the API maximum and our default `first:` value.
	DefaultPageSize = 250
	// MinPageSize is the smallest page the query builder will request.
	MinPageSize = 1
)

// QueryOptions captures the request shape for one fetch run. It is built
// once per invocation and never mutated afterwards.
type QueryOptions struct {
	// Team is either a short team key ("ROI") or a team UUID.
	Team string
	// StartDate and EndDate are ISO dates (YYYY-MM-DD), either may be empty.
	StartDate string
	EndDate   string
	// PageSize is the normalized `first:` value, always within [1,250].
	PageSize int
	// NoCache bypasses the response cache entirely.
	NoCache bool
	// IncludeArchived adds archived issues to the result set.
	IncludeArchived bool
}

// NewQueryOptions builds options with a normalized page size.
func NewQueryOptions(team, start, end string, pageSize int, noCache, includeArchived bool) QueryOptions {
	return QueryOptions{
		Team:            team,
		StartDate:       start,
		EndDate:         end,
		PageSize:        ClampPageSize(pageSize),
		NoCache:         noCache,
		IncludeArchived: includeArchived,
	}
}

// ClampPageSize forces a page size into [MinPageSize, DefaultPageSize].
// Zero and negative values fall back to the default.
func ClampPageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	if n < MinPageSize {
		return MinPageSize
	}
	if n > DefaultPageSize {
		return DefaultPageSize
	}
	return n
}

// NormalizePageSize parses a user-supplied page size string and clamps it.
// Malformed input silently falls back to the default (with a warning log).
func NormalizePageSize(s string) int {
	if s == "" {
		return DefaultPageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Warn().Str("pageSize", s).Int("fallback", DefaultPageSize).Msg("Invalid page size, using default")
		return DefaultPageSize
	}
	return ClampPageSize(n)
}

// CacheKey derives a deterministic key from the fields that affect the
// fetched data. Presentation-only options (output format, no-cache) are
// excluded so runs differing only in rendering share a cache entry.
func (o QueryOptions) CacheKey() string {
	canonical := fmt.Sprintf("team=%s|start=%s|end=%s|pageSize=%d|archived=%t",
		o.Team, o.StartDate, o.EndDate, o.PageSize, o.IncludeArchived)
	return fmt.Sprintf("%016x", xxhash.Sum64String(canonical))
}
