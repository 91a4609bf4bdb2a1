package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/nvimsul/pkg/domain"
)

// RunReport summarizes a learning run.
type RunReport struct {
	RunID      string
	Params     domain.LearnParams
	Alphabet   domain.Alphabet
	Hypothesis *domain.Hypothesis
	Queries    int
	CacheHits  int
	Duration   time.Duration
	Artifacts  []string
}

// Markdown renders the report. It is plain markdown so it reads fine
// unrendered in logs and CI output.
func (r RunReport) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# Learning run\n\n")
	if r.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run `%s`\n\n", r.RunID))
	}

	sb.WriteString("| Parameter | Value |\n|---|---|\n")
	sb.WriteString(fmt.Sprintf("| algorithm | %s |\n", r.Params.Algorithm))
	sb.WriteString(fmt.Sprintf("| walks per state | %d |\n", r.Params.WalksPerState))
	sb.WriteString(fmt.Sprintf("| walk length | %d |\n", r.Params.WalkLen))
	sb.WriteString(fmt.Sprintf("| seed | %d |\n", r.Params.Seed))
	sb.WriteString(fmt.Sprintf("| alphabet | %s |\n", codeList(r.Alphabet.Strings())))
	sb.WriteString(fmt.Sprintf("| queries | %d (cache hits %d) |\n", r.Queries, r.CacheHits))
	sb.WriteString(fmt.Sprintf("| duration | %s |\n\n", r.Duration.Round(time.Millisecond)))

	if r.Hypothesis != nil {
		states := r.Hypothesis.States()
		sb.WriteString(fmt.Sprintf("## States (%d)\n\n", len(states)))
		for _, s := range states {
			sb.WriteString(fmt.Sprintf("- **%s** via %s\n", s, accessString(r.Hypothesis.Access[s])))
		}
		sb.WriteString(fmt.Sprintf("\n%d transitions observed.\n", len(r.Hypothesis.Transitions())))
	}

	if len(r.Artifacts) > 0 {
		sb.WriteString("\n## Artifacts\n\n")
		for _, a := range r.Artifacts {
			sb.WriteString(fmt.Sprintf("- `%s`\n", a))
		}
	}
	return sb.String()
}

func accessString(w domain.Word) string {
	if len(w) == 0 {
		return "_initial_"
	}
	return "`" + w.String() + "`"
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = "`" + it + "`"
	}
	return strings.Join(quoted, " ")
}
