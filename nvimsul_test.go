package nvimsul_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/nvimsul"
	"github.com/aretw0/nvimsul/internal/testutils"
	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioAlphabet extends the shipped alphabet with insert mode entry.
func scenarioAlphabet(t *testing.T) domain.Alphabet {
	t.Helper()
	a, err := domain.ParseAlphabet(append(domain.DefaultAlphabet().Strings(), "i"))
	require.NoError(t, err)
	return a
}

func TestNew_DefaultAlphabet(t *testing.T) {
	sul, err := nvimsul.New(nvimsul.WithSpawner(&testutils.FakeSpawner{}))
	require.NoError(t, err)
	defer sul.Close()

	assert.Equal(t, domain.DefaultAlphabet().Strings(), sul.Alphabet().Strings())
	_, err = sul.Query(context.Background(), domain.Word{"i"})
	assert.ErrorIs(t, err, domain.ErrUnknownSymbol)
}

func TestNew_Query(t *testing.T) {
	spawner := &testutils.FakeSpawner{}
	sul, err := nvimsul.New(nvimsul.WithSpawner(spawner), nvimsul.WithAlphabet(scenarioAlphabet(t)))
	require.NoError(t, err)
	defer sul.Close()

	assert.Equal(t, domain.StatusUninitialized, sul.Status())
	assert.Equal(t, 0, spawner.Spawned(), "no process before the first query")

	trace, err := sul.Query(context.Background(), domain.Word{":", "<Esc>", "v", "<Esc>", "i", "<C-c>"})
	require.NoError(t, err)
	assert.Equal(t, []domain.CanonicalState{
		"Normal", "Command-line editing", "Normal", "Visual", "Normal", "Insert", "Normal",
	}, trace.Outputs)
	assert.Equal(t, domain.StatusReady, sul.Status())

	require.NoError(t, sul.Close())
	assert.Equal(t, 0, spawner.Live())
	assert.Equal(t, domain.StatusUninitialized, sul.Status())
}

func TestNew_AppliesProfile(t *testing.T) {
	spawner := &testutils.FakeSpawner{}
	prof := &profile.Profile{
		Keymaps: []profile.KeymapOverride{{Mode: profile.ModeNormal, LHS: "gv", RHS: "v"}},
		Options: []profile.OptionOverride{{Name: "showmode", Value: false}},
	}
	sul, err := nvimsul.New(nvimsul.WithSpawner(spawner), nvimsul.WithProfile(prof))
	require.NoError(t, err)
	defer sul.Close()

	require.NoError(t, sul.Reset(context.Background()))
	editor := spawner.Last()
	require.NotNil(t, editor)
	require.Len(t, editor.Keymaps, 1)
	assert.Equal(t, "gv", editor.Keymaps[0].LHS)
	require.Len(t, editor.Options, 1)
	assert.Equal(t, "showmode", editor.Options[0].Name)

	got := sul.Profile()
	got.Options = nil
	assert.Len(t, sul.Profile().Options, 1, "Profile returns a copy")
}

func TestNew_InvalidProfile(t *testing.T) {
	prof := &profile.Profile{Keymaps: []profile.KeymapOverride{{Mode: "z", LHS: "a"}}}
	_, err := nvimsul.New(nvimsul.WithSpawner(&testutils.FakeSpawner{}), nvimsul.WithProfile(prof))
	assert.Error(t, err)
}

func TestNew_AlphabetClosure(t *testing.T) {
	alphabet, err := domain.ParseAlphabet([]string{"v", "<Esc>"})
	require.NoError(t, err)
	sul, err := nvimsul.New(nvimsul.WithSpawner(&testutils.FakeSpawner{}), nvimsul.WithAlphabet(alphabet))
	require.NoError(t, err)
	defer sul.Close()

	assert.Equal(t, []string{"v", "<Esc>"}, sul.Alphabet().Strings())
	_, err = sul.Query(context.Background(), domain.Word{"i"})
	assert.True(t, errors.Is(err, domain.ErrUnknownSymbol))
}

func TestNew_Hooks(t *testing.T) {
	var steps, spawns int
	hooks := domain.LifecycleHooks{
		OnStep:  func(ctx context.Context, e *domain.StepEvent) { steps++ },
		OnSpawn: func(ctx context.Context, e *domain.ProcessEvent) { spawns++ },
	}
	sul, err := nvimsul.New(
		nvimsul.WithSpawner(&testutils.FakeSpawner{}),
		nvimsul.WithLifecycleHooks(hooks),
		nvimsul.WithRunID("run-1"),
	)
	require.NoError(t, err)
	defer sul.Close()

	_, err = sul.Query(context.Background(), domain.Word{"v"})
	require.NoError(t, err)
	assert.Equal(t, 2, steps)
	assert.Equal(t, 2, spawns, "one for the query, one for the post reset")
}

func TestRunner_Session(t *testing.T) {
	spawner := &testutils.FakeSpawner{}
	sul, err := nvimsul.New(nvimsul.WithSpawner(spawner), nvimsul.WithAlphabet(scenarioAlphabet(t)))
	require.NoError(t, err)
	defer sul.Close()

	in := strings.NewReader(": <Esc>\nbogus v\n\nreset\ni\nexit\nv\n")
	var out bytes.Buffer
	var seen int
	r := nvimsul.NewRunner(in, &out)
	r.Headless = true
	r.OnStep = func(domain.Trace) { seen++ }

	trace, err := r.Run(context.Background(), sul)
	require.NoError(t, err)

	assert.Equal(t, domain.Word{"i"}, trace.Word, "reset starts a new trace")
	assert.Equal(t, []domain.CanonicalState{"Normal", "Insert"}, trace.Outputs)
	assert.Equal(t, 6, seen)

	text := out.String()
	assert.Contains(t, text, ": -> Command-line editing\n")
	assert.Contains(t, text, "<Esc> -> Normal\n")
	assert.Contains(t, text, "bogus: ")
	assert.Contains(t, text, "v -> Visual\n")
	assert.Contains(t, text, "i -> Insert\n")
	assert.NotContains(t, text, "\n> ", "headless prints no prompt")
	assert.Equal(t, 2, spawner.Spawned(), "one instance per session")
}

func TestRunner_EOF(t *testing.T) {
	sul, err := nvimsul.New(nvimsul.WithSpawner(&testutils.FakeSpawner{}))
	require.NoError(t, err)
	defer sul.Close()

	var out bytes.Buffer
	trace, err := nvimsul.NewRunner(strings.NewReader("v"), &out).Run(context.Background(), sul)
	require.NoError(t, err)
	assert.Equal(t, []domain.CanonicalState{"Normal", "Visual"}, trace.Outputs)
	assert.True(t, strings.HasPrefix(out.String(), "Normal\n> "))
}

func TestRunner_ProcessFailure(t *testing.T) {
	spawner := &testutils.FakeSpawner{}
	sul, err := nvimsul.New(nvimsul.WithSpawner(spawner))
	require.NoError(t, err)
	defer sul.Close()

	spawner.Prepare = func(e *testutils.FakeEditor) { e.InputErr = errors.New("broken pipe") }
	var out bytes.Buffer
	_, err = nvimsul.NewRunner(strings.NewReader("v\n"), &out).Run(context.Background(), sul)
	assert.True(t, errors.Is(err, domain.ErrLifecycle))
}

func TestRunner_RequiresIO(t *testing.T) {
	sul, err := nvimsul.New(nvimsul.WithSpawner(&testutils.FakeSpawner{}))
	require.NoError(t, err)
	_, err = (&nvimsul.Runner{}).Run(context.Background(), sul)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(nvimsul.Version))
}
