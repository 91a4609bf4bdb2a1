package profile

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadPatch reads a profile patch (YAML or JSON).
// An empty path is an empty patch; a path that cannot be read is an error.
func LoadPatch(path string) (*Profile, error) {
	if path == "" {
		return &Profile{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile patch: %w", err)
	}

	var patch Profile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &patch); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		// JSON has no integers; number options must not reach the editor as floats.
		for i, o := range patch.Options {
			if f, ok := o.Value.(float64); ok && f == math.Trunc(f) {
				patch.Options[i].Value = int(f)
			}
		}
	} else {
		if err := yaml.Unmarshal(data, &patch); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile patch %s: %w", path, err)
	}
	return &patch, nil
}

// Load returns the default profile extended with the patch at path.
func Load(path string) (*Profile, error) {
	patch, err := LoadPatch(path)
	if err != nil {
		return nil, err
	}
	return Default().Extend(patch), nil
}

// Marshal renders the profile as YAML.
func (p *Profile) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}
