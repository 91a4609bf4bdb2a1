package classifier_test

import (
	"testing"

	"github.com/aretw0/nvimsul/pkg/classifier"
	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  domain.RawMode
		want domain.CanonicalState
	}{
		{"Normal", domain.RawMode{Mode: "n"}, "Normal"},
		{"Normal Blocking", domain.RawMode{Mode: "n", Blocking: true}, "Normal waiting for input (blocking)"},
		{"Command Line", domain.RawMode{Mode: "c"}, "Command-line editing"},
		{"Visual Block", domain.RawMode{Mode: "\x16"}, "Visual Block"},
		{"Operator Pending Blockwise", domain.RawMode{Mode: "no\x16"}, "Operator-pending blockwise"},
		{"Select Block", domain.RawMode{Mode: "\x13"}, "Select Block"},
		{"Hit Enter", domain.RawMode{Mode: "r", Blocking: true}, "Hit-enter prompt waiting for input (blocking)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifier.Classify(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, classifier.IsCanonical(got))
		})
	}
}

func TestClassify_UnknownCode(t *testing.T) {
	_, err := classifier.Classify(domain.RawMode{Mode: "zz", Blocking: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrClassification)

	var ce *domain.ClassificationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "zz", ce.Raw.Mode)

	assert.Panics(t, func() { classifier.MustClassify(domain.RawMode{Mode: "zz"}) })
}

func TestClassify_Totality(t *testing.T) {
	codes := classifier.Codes()
	assert.Len(t, codes, 31)

	seen := map[domain.CanonicalState]string{}
	for _, code := range codes {
		for _, blocking := range []bool{false, true} {
			got, err := classifier.Classify(domain.RawMode{Mode: code, Blocking: blocking})
			require.NoError(t, err, "code %q", code)
			if prev, dup := seen[got]; dup {
				t.Errorf("codes %q and %q both map to %q", prev, code, got)
			}
			seen[got] = code
		}
	}
	assert.Len(t, classifier.States(), 62)
	assert.False(t, classifier.IsCanonical("Nowhere"))
}

func TestTable_IsACopy(t *testing.T) {
	tbl := classifier.Table()
	assert.Len(t, tbl, 31)
	tbl["n"] = "Insert"
	tbl["zz"] = "Visual"

	got, err := classifier.Classify(domain.RawMode{Mode: "n"})
	require.NoError(t, err)
	assert.Equal(t, domain.StateNormal, got)
	_, err = classifier.Classify(domain.RawMode{Mode: "zz"})
	assert.ErrorIs(t, err, domain.ErrClassification)

	label, ok := classifier.Label("n")
	assert.True(t, ok)
	assert.Equal(t, domain.StateNormal, label)
	_, ok = classifier.Label("zz")
	assert.False(t, ok)
}
