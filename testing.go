// Package tileset resolves animated tile catalogs to the image visible at a given time.
package tileset

import (
	"testing"

	fixture "github.com/kelindar/tileset/internal/testing"
	"github.com/stretchr/testify/require"
)

// TestWith runs a test with a lookup over the Galaxy test tileset and a fresh clock.
// The function ensures the catalog builds cleanly and passes the lookup to the test function.
func TestWith(t *testing.T, testFn func(*testing.T, *Lookup)) {
	catalog, err := Load(fixture.Galaxy(), WithStrictChains())
	require.NoError(t, err, "failed to load the test tileset")
	require.NotNil(t, catalog, "catalog should not be nil")

	// Run the test with a lookup at time zero
	testFn(t, NewLookup(catalog, NewClock()))
}
