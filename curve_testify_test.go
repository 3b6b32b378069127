package amplitude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurveEvaluateEndpointsViaAssert(t *testing.T) {
	c := NewCurve(
		CurvePart{StartX: 0, StartY: 1, EndX: 0.5, EndY: 0.4, Shape: CurveLinear},
		CurvePart{StartX: 0.5, StartY: 0.4, EndX: 1, EndY: 0, Shape: CurveLinear},
	)

	require.NotNil(t, c)
	assert.Equal(t, float32(1), c.Evaluate(0), "left domain endpoint")
	assert.Equal(t, float32(0), c.Evaluate(1), "right domain endpoint")
	assert.InDelta(t, float32(0.4), c.Evaluate(0.5), 1e-6, "segment boundary")
}

func TestCurveEvaluateClampsOutsideDomainViaAssert(t *testing.T) {
	c := NewCurve(CurvePart{StartX: 0, StartY: 1, EndX: 1, EndY: 0, Shape: CurveLinear})

	assert.Equal(t, float32(1), c.Evaluate(-5), "below domain clamps to first StartY")
	assert.Equal(t, float32(0), c.Evaluate(5), "above domain clamps to last EndY")
}
