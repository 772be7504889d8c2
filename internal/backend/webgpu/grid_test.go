package webgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchSize(t *testing.T) {
	tests := []struct {
		n             int
		x, y, rowSize uint32
	}{
		{0, 1, 1, 256},
		{1, 1, 1, 256},
		{256, 1, 1, 256},
		{257, 2, 1, 512},
		{maxWorkgroupsPerDim * workgroupSize, maxWorkgroupsPerDim, 1, maxWorkgroupsPerDim * workgroupSize},
		{maxWorkgroupsPerDim*workgroupSize + 1, maxWorkgroupsPerDim, 2, maxWorkgroupsPerDim * workgroupSize},
	}
	for _, tt := range tests {
		x, y, row := dispatchSize(tt.n)
		assert.Equal(t, tt.x, x, "n=%d", tt.n)
		assert.Equal(t, tt.y, y, "n=%d", tt.n)
		assert.Equal(t, tt.rowSize, row, "n=%d", tt.n)

		// Every index below n must be reachable.
		covered := uint64(y-1)*uint64(row) + uint64(x)*workgroupSize
		assert.GreaterOrEqual(t, covered, uint64(tt.n), "n=%d", tt.n)
	}
}
