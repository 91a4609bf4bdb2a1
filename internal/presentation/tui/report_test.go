package tui_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nvimsul/internal/presentation/tui"
	"github.com/aretw0/nvimsul/pkg/domain"
)

func TestRunReport_Markdown(t *testing.T) {
	h := domain.NewHypothesis(domain.StateNormal)
	h.Discover("Visual", domain.Word{"v"})
	h.Record(domain.StateNormal, "v", "Visual")

	report := tui.RunReport{
		RunID:      "abc",
		Params:     domain.DefaultLearnParams(),
		Alphabet:   domain.DefaultAlphabet(),
		Hypothesis: h,
		Queries:    12,
		CacheHits:  3,
		Duration:   1500 * time.Millisecond,
		Artifacts:  []string{"out/nvim_KV_300_10.dot"},
	}
	md := report.Markdown()

	assert.Contains(t, md, "| algorithm | KV |")
	assert.Contains(t, md, "## States (2)")
	assert.Contains(t, md, "- **Normal** via _initial_")
	assert.Contains(t, md, "- **Visual** via `v`")
	assert.Contains(t, md, "1 transitions observed.")
	assert.Contains(t, md, "`out/nvim_KV_300_10.dot`")

	out, err := tui.NewRenderer()(md)
	require.NoError(t, err)
	assert.Contains(t, out, "Visual")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.NotEmpty(t, buf.String())
}
