package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/fittrack/pkg/adapters/fs"
)

// FindRoot walks upwards from startDir looking for a data directory marker:
// a .fittrack system directory or a fittrack.yaml file.
// It returns the absolute path of the first directory that has one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, fs.DefaultSystemDir) || hasFile(dir, ConfigFile) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s or %s found above %s", fs.DefaultSystemDir, ConfigFile, abs)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
