package spirv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageToken(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		stage Stage
		token string
		name  string
	}{
		{Vertex, "vert", "vertex"},
		{Fragment, "frag", "fragment"},
		{TesselationControl, "tesc", "tesselation_control"},
		{TesselationEvaluation, "tese", "tesselation_evaluation"},
		{Geometry, "geom", "geometry"},
		{Compute, "comp", "compute"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.token, tc.stage.Token())
			assert.Equal(t, tc.name, tc.stage.String())
		})
	}

	assert.Empty(t, Stage(42).Token())
	assert.Equal(t, "Stage(42)", Stage(42).String())
}

func TestParseStage(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"vertex", "VERT", " Vertex "} {
		got, err := ParseStage(in)
		require.NoError(t, err, in)
		assert.Equal(t, Vertex, got, in)
	}

	got, err := ParseStage("tesselation-evaluation")
	require.NoError(t, err)
	assert.Equal(t, TesselationEvaluation, got)

	_, err = ParseStage("mesh")
	assert.ErrorContains(t, err, `unknown shader stage "mesh"`)
}

func TestStageFromPath(t *testing.T) {
	t.Parallel()

	stage, ok := StageFromPath("shaders/light.FRAG")
	require.True(t, ok)
	assert.Equal(t, Fragment, stage)

	stage, ok = StageFromPath("particles.comp")
	require.True(t, ok)
	assert.Equal(t, Compute, stage)

	_, ok = StageFromPath("shader.hlsl")
	assert.False(t, ok)

	_, ok = StageFromPath("Makefile")
	assert.False(t, ok)
}
