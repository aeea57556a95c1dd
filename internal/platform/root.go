package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/crosstalk/pkg/adapters/fs"
)

// ConfigFile is the project configuration looked up by FindRoot.
const ConfigFile = "crosstalk.yaml"

// FindRoot walks upwards from startDir looking for a vault root.
// Indicators are the system directory, the config file or a .git directory.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, fs.DefaultSystemDir) || hasFile(dir, ConfigFile) || hasFile(dir, ".git") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
