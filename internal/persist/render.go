package persist

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"btt/internal/domain"
)

// Render turns a case snapshot into its Markdown record. The output is
// a pure function of the snapshot: rendering unchanged state twice
// yields byte-identical documents, which keeps re-persisting cheap to
// diff.
func Render(tc *domain.TestCase) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Test Case: %s\n\n", tc.ID)

	b.WriteString("## Metadata\n\n")
	fmt.Fprintf(&b, "- ID: %s\n", tc.ID)
	if tc.Title != "" {
		fmt.Fprintf(&b, "- Title: %s\n", tc.Title)
	}
	fmt.Fprintf(&b, "- Priority: %s\n", tc.Priority)
	fmt.Fprintf(&b, "- Source: %s\n", tc.Source)
	fmt.Fprintf(&b, "- Status: %s\n", tc.Status)
	writeTime(&b, "Loaded", tc.LoadedAt)
	writeTime(&b, "Started", tc.StartedAt)
	writeTime(&b, "Finished", tc.FinishedAt)

	b.WriteString("\n## Steps\n")
	for _, s := range tc.Steps {
		fmt.Fprintf(&b, "\n### Step %d: %s\n\n", s.Index, s.Description)
		fmt.Fprintf(&b, "- Status: %s\n", s.Status)
		fmt.Fprintf(&b, "- Command: %s\n", s.Command)
		if s.Independent {
			b.WriteString("- Independent: yes\n")
		}
		if s.Expected != "" {
			fmt.Fprintf(&b, "- Expected: %s\n", s.Expected)
		}
		if s.Observed != "" {
			fmt.Fprintf(&b, "- Observed: %s\n", s.Observed)
		}
		if s.Error != "" {
			fmt.Fprintf(&b, "- Error: %s\n", s.Error)
		}
		if s.Attempts > 0 {
			fmt.Fprintf(&b, "- Attempts: %d\n", s.Attempts)
			fmt.Fprintf(&b, "- Duration: %s\n", s.Duration)
		}
		if len(s.Selectors) > 0 {
			b.WriteString("- Selectors:\n")
			names := make([]string, 0, len(s.Selectors))
			for name := range s.Selectors {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(&b, "  - %s: %s\n", name, s.Selectors[name])
			}
		}
	}

	rec := domain.NewExecutionRecord(tc)
	b.WriteString("\n## Summary\n\n")
	fmt.Fprintf(&b, "- Success rate: %d/%d (%.1f%%)\n", rec.Succeeded, rec.Total, rec.SuccessRate()*100)
	if len(rec.Findings) > 0 {
		b.WriteString("- Findings:\n")
		for _, finding := range rec.Findings {
			fmt.Fprintf(&b, "  - %s\n", finding)
		}
	}

	return []byte(b.String())
}

func writeTime(b *strings.Builder, label string, t time.Time) {
	if t.IsZero() {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, t.Format(time.RFC3339))
}
