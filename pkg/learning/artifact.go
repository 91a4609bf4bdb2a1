package learning

import (
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactName is the base name of the learned model file of a run.
func ArtifactName(algorithm string, walksPerState, walkLen int) string {
	return fmt.Sprintf("nvim_%s_%d_%d", algorithm, walksPerState, walkLen)
}

// WriteArtifact writes data to dir/name.ext, creating dir if needed.
func WriteArtifact(dir, name, ext string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name+"."+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}
