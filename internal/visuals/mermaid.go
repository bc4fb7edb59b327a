// Package visuals renders metric results as Mermaid charts for embedding
// in markdown reports.
package visuals

import (
	"fmt"
	"strings"

	"linearflow/internal/stats"
)

// GenerateThroughputChart creates a Mermaid bar chart of completed issues
// per period.
func GenerateThroughputChart(result stats.ThroughputResult) string {
	if len(result.Buckets) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxY := 0
	for _, b := range result.Buckets {
		labels = append(labels, fmt.Sprintf("%q", b.Label))
		values = append(values, fmt.Sprintf("%d", b.Count))
		if b.Count > maxY {
			maxY = b.Count
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Throughput\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Completed Issues\" 0 --> %d\n", maxY+1))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateStatusFlowChart creates a Mermaid flowchart of observed state
// transitions, edge labels carrying the transition counts.
func GenerateStatusFlowChart(flows []stats.FlowTransition) string {
	if len(flows) == 0 {
		return ""
	}

	nodeIDs := make(map[string]string)
	nextID := 0
	id := func(state string) string {
		if existing, ok := nodeIDs[state]; ok {
			return existing
		}
		assigned := fmt.Sprintf("s%d", nextID)
		nextID++
		nodeIDs[state] = assigned
		return assigned
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("flowchart LR\n")
	for _, f := range flows {
		parts := strings.SplitN(f.Transition, " → ", 2)
		if len(parts) != 2 {
			continue
		}
		from, to := parts[0], parts[1]
		sb.WriteString(fmt.Sprintf("    %s[%q] -->|%d| %s[%q]\n", id(from), from, f.Count, id(to), to))
	}
	sb.WriteString("```")
	return sb.String()
}
