package linear

import (
	"fmt"
	"regexp"
	"strings"
)

// issueFields is the fixed node selection every page requests. History is
// capped at 50 entries per issue by the API schema.
const issueFields = `
			id
			identifier
			title
			priority
			estimate
			state {
				id
				name
				type
			}
			team {
				id
				key
				name
			}
			assignee {
				id
				name
				displayName
			}
			createdAt
			updatedAt
			startedAt
			completedAt
			archivedAt
			history(first: 50) {
				nodes {
					id
					createdAt
					fromState {
						name
						type
					}
					toState {
						name
						type
					}
				}
			}`

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// BuildIssuesQuery constructs the GraphQL query for one page of issues.
// Absent optional filters are omitted entirely; cursor is the endCursor of
// the previous page, empty for the first page.
func BuildIssuesQuery(opts QueryOptions, cursor string) string {
	var args []string
	args = append(args, fmt.Sprintf("first: %d", opts.PageSize))
	if cursor != "" {
		args = append(args, fmt.Sprintf("after: %q", cursor))
	}
	if opts.IncludeArchived {
		args = append(args, "includeArchived: true")
	}
	if filter := buildFilter(opts); filter != "" {
		args = append(args, "filter: "+filter)
	}

	return fmt.Sprintf(`query {
	issues(%s) {
		nodes {%s
		}
		pageInfo {
			hasNextPage
			endCursor
		}
	}
}`, strings.Join(args, ", "), issueFields)
}

func buildFilter(opts QueryOptions) string {
	var clauses []string

	if opts.Team != "" {
		// Team UUIDs filter by id, short keys ("ROI") filter by key.
		field := "key"
		if uuidPattern.MatchString(opts.Team) {
			field = "id"
		}
		clauses = append(clauses, fmt.Sprintf("team: { %s: { eq: %q } }", field, opts.Team))
	}

	if dateFilter := buildDateFilter(opts.StartDate, opts.EndDate); dateFilter != "" {
		clauses = append(clauses, dateFilter)
	}

	if len(clauses) == 0 {
		return ""
	}
	return "{ " + strings.Join(clauses, ", ") + " }"
}

// buildDateFilter anchors the start date to the beginning of its day and the
// end date to the last millisecond of its day, combined under one updatedAt
// range with whichever bounds are present.
func buildDateFilter(start, end string) string {
	var bounds []string
	if start != "" {
		bounds = append(bounds, fmt.Sprintf("gte: %q", start+"T00:00:00.000Z"))
	}
	if end != "" {
		bounds = append(bounds, fmt.Sprintf("lte: %q", end+"T23:59:59.999Z"))
	}
	if len(bounds) == 0 {
		return ""
	}
	return "updatedAt: { " + strings.Join(bounds, ", ") + " }"
}
