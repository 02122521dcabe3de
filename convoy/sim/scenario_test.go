package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinLayoutsAreValid(t *testing.T) {
	for name, layout := range Layouts {
		assert.NoError(t, ValidateLayout(layout), "layout %q", name)
	}
}

func TestLayoutFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Layouts["city"], Layout("city"))
	assert.Equal(t, Layouts["default"], Layout("no-such-map"))
}

func TestValidateLayoutRejectsUnknownBlocks(t *testing.T) {
	assert.Error(t, ValidateLayout(""))
	assert.Error(t, ValidateLayout("XCZ"))
	assert.NoError(t, ValidateLayout("SCXTO"))
}

func TestDecodeLayout(t *testing.T) {
	assert.Equal(t, "4-Way Intersection -> Curve -> Roundabout", DecodeLayout("XCO"))
}

func TestLoadLayoutsMergesOverBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layouts:\n  canyon: \"SCCS\"\n  city: \"SSS\"\n"), 0o644))

	merged, err := LoadLayouts(path)
	require.NoError(t, err)
	assert.Equal(t, "SCCS", merged["canyon"])
	assert.Equal(t, "SSS", merged["city"], "file entries override builtins")
	assert.Equal(t, Layouts["highway"], merged["highway"], "untouched builtins survive")
}

func TestLoadLayoutsRejectsInvalidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layouts:\n  bad: \"XYZ\"\n"), 0o644))

	_, err := LoadLayouts(path)
	assert.Error(t, err)
}

func TestPlanPathConvergesToGoal(t *testing.T) {
	path := PlanPath(Point{X: 0, Y: 2}, Point{X: 10, Y: 2})

	require.NotEmpty(t, path)
	assert.Equal(t, Point{X: 0, Y: 2}, path[0])
	assert.InDelta(t, 10.0, path[len(path)-1].X, 0.1)
	for _, p := range path {
		assert.Equal(t, 2.0, p.Y, "straight-line planner keeps y fixed")
	}

	// Already at the goal: just the start point.
	assert.Len(t, PlanPath(Point{X: 5}, Point{X: 5.05}), 1)
}
