package webgpu

// dispatchSize splits n invocations into an (x, y) workgroup grid and
// returns the number of invocations per y row.
func dispatchSize(n int) (x, y, rowStride uint32) {
	groups := max((n+workgroupSize-1)/workgroupSize, 1)
	if groups <= maxWorkgroupsPerDim {
		//nolint:gosec // G115: bounded by maxWorkgroupsPerDim
		return uint32(groups), 1, uint32(groups * workgroupSize)
	}
	rows := (groups + maxWorkgroupsPerDim - 1) / maxWorkgroupsPerDim
	//nolint:gosec // G115: rows stays far below 2^32 for any buffer WebGPU can bind
	return maxWorkgroupsPerDim, uint32(rows), maxWorkgroupsPerDim * workgroupSize
}
