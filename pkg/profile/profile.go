// Package profile holds the determinism-enforcing configuration applied to
// every freshly spawned editor.
//
// Each override suppresses one identified source of history-dependent
// behavior. Entries are additive: new patches append, nothing is removed.
package profile

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/nvimsul/pkg/ports"
)

// Mapping modes accepted by nvim_set_keymap.
const (
	ModeNormal          = "n"
	ModeInsert          = "i"
	ModeCommandLine     = "c"
	ModeVisual          = "x"
	ModeVisualSelect    = "v"
	ModeSelect          = "s"
	ModeOperatorPending = "o"
	ModeLanguage        = "l"
	ModeTerminal        = "t"
)

var validModes = []string{
	ModeNormal, ModeInsert, ModeCommandLine, ModeVisual, ModeVisualSelect,
	ModeSelect, ModeOperatorPending, ModeLanguage, ModeTerminal,
}

// KeymapOverride is one mapping installed on a fresh editor.
// An empty RHS disables the LHS.
type KeymapOverride struct {
	Mode    string          `yaml:"mode" json:"mode"`
	LHS     string          `yaml:"lhs" json:"lhs"`
	RHS     string          `yaml:"rhs" json:"rhs"`
	Options map[string]bool `yaml:"opts,omitempty" json:"opts,omitempty"`
	Reason  string          `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// OptionOverride is one global option set on a fresh editor.
type OptionOverride struct {
	Name   string `yaml:"name" json:"name"`
	Value  any    `yaml:"value" json:"value"`
	Reason string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Profile is the ordered list of overrides applied after every spawn.
type Profile struct {
	Keymaps []KeymapOverride `yaml:"keymaps" json:"keymaps"`
	Options []OptionOverride `yaml:"options" json:"options"`
}

// Validate checks every entry.
func (p *Profile) Validate() error {
	for i, k := range p.Keymaps {
		if !slices.Contains(validModes, k.Mode) {
			return fmt.Errorf("keymap %d: invalid mode %q", i, k.Mode)
		}
		if k.LHS == "" {
			return fmt.Errorf("keymap %d: empty lhs", i)
		}
	}
	for i, o := range p.Options {
		if o.Name == "" {
			return fmt.Errorf("option %d: empty name", i)
		}
		if o.Value == nil {
			return fmt.Errorf("option %d (%s): missing value", i, o.Name)
		}
	}
	return nil
}

// Extend returns a new profile with the patch entries appended.
func (p *Profile) Extend(patch *Profile) *Profile {
	out := p.Clone()
	if patch == nil {
		return out
	}
	out.Keymaps = append(out.Keymaps, patch.Keymaps...)
	out.Options = append(out.Options, patch.Options...)
	return out
}

// Clone returns a deep copy of the entry lists.
func (p *Profile) Clone() *Profile {
	out := &Profile{
		Keymaps: make([]KeymapOverride, len(p.Keymaps)),
		Options: slices.Clone(p.Options),
	}
	for i, k := range p.Keymaps {
		k.Options = cloneOpts(k.Options)
		out.Keymaps[i] = k
	}
	return out
}

// Apply installs keymaps and then options, in order. It stops at the first failure.
func (p *Profile) Apply(ctx context.Context, editor ports.Editor) error {
	for i, k := range p.Keymaps {
		if err := editor.SetKeymap(ctx, k.Mode, k.LHS, k.RHS, cloneOpts(k.Options)); err != nil {
			return fmt.Errorf("keymap %d (%s %q): %w", i, k.Mode, k.LHS, err)
		}
	}
	for i, o := range p.Options {
		if err := editor.SetOption(ctx, o.Name, o.Value); err != nil {
			return fmt.Errorf("option %d (%s): %w", i, o.Name, err)
		}
	}
	return nil
}

// nvim_set_keymap rejects a nil dictionary.
func cloneOpts(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
