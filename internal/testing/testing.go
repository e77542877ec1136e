package testing

import (
	"path/filepath"
	"runtime"
)

// Path returns the path to a file in the test data directory at the root of
// the module, regardless of the package the test runs from.
func Path(elem ...string) string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "..", "..", "testdata")
	return filepath.Join(append([]string{root}, elem...)...)
}

// Galaxy returns the path to the Galaxy tileset, a collection tileset of 26
// tiles with four animations (4, 5, 4 and 11 frames).
func Galaxy() string {
	return Path("galaxy.tsx")
}
