package main

import (
	"testing"

	"github.com/bityangke/deeplab-public/internal/biaschannel"
	"github.com/bityangke/deeplab-public/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions() runOptions {
	opts := defaultRunOptions()
	opts.N, opts.C, opts.H, opts.W = 2, 5, 6, 7
	opts.Ignore = []int{255}
	return opts
}

func TestParseIgnore(t *testing.T) {
	got, err := parseIgnore(" 255, 254 ")
	require.NoError(t, err)
	assert.Equal(t, []int{255, 254}, got)

	got, err = parseIgnore("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseIgnore("1,x")
	assert.Error(t, err)
}

func TestSelectKernel(t *testing.T) {
	tests := []struct {
		backend string
		want    []string
	}{
		{config.BackendReference, []string{"reference"}},
		{config.BackendCPU, []string{"cpu"}},
		{"CPU", []string{"cpu"}},
		{config.BackendWebGPU, []string{"webgpu", "cpu"}}, // cpu when no device
	}
	for _, tt := range tests {
		cfg := config.Default()
		cfg.Backend = tt.backend
		k, release, err := selectKernel(cfg)
		require.NoError(t, err, tt.backend)
		assert.Contains(t, tt.want, k.Name(), tt.backend)
		release()
	}

	cfg := config.Default()
	cfg.Backend = "tpu"
	_, _, err := selectKernel(cfg)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	for _, mode := range []string{"IMAGE", "PIXEL"} {
		for _, f64 := range []bool{false, true} {
			opts := smallOptions()
			opts.Mode = mode
			opts.Float64 = f64
			opts.FgBias = 2

			cfg := config.Default()
			cfg.Workers = 3
			k, release, err := selectKernel(cfg)
			require.NoError(t, err)

			s, err := run(opts, k)
			release()
			require.NoError(t, err, "mode=%s f64=%t", mode, f64)
			assert.Equal(t, "cpu", s.Kernel)
			assert.Equal(t, mode, s.LabelType)
			assert.Equal(t, 2*5*6*7, s.Elements)
			assert.Zero(t, s.MaxDiff)
			assert.True(t, s.BackwardOK)
			assert.ErrorIs(t, s.LabelGradErr, biaschannel.ErrUnsupported)
			assert.Contains(t, s.String(), "label_grad_rejected=true")
		}
	}
}

func TestRunErrors(t *testing.T) {
	opts := smallOptions()
	opts.Mode = "BOX"
	_, err := run(opts, biaschannel.Reference{})
	assert.ErrorIs(t, err, biaschannel.ErrInvalidConfig)

	opts = smallOptions()
	opts.BgBias = -1
	_, err = run(opts, biaschannel.Reference{})
	assert.ErrorIs(t, err, biaschannel.ErrInvalidConfig)

	opts = smallOptions()
	opts.Slots = 0
	_, err = run(opts, biaschannel.Reference{})
	assert.Error(t, err)
}

func TestSyntheticInputsDeterministic(t *testing.T) {
	opts := smallOptions()
	a1, l1, err := syntheticInputs(opts, biaschannel.Image)
	require.NoError(t, err)
	a2, l2, err := syntheticInputs(opts, biaschannel.Image)
	require.NoError(t, err)
	assert.Equal(t, a1.AsFloat32(), a2.AsFloat32())
	assert.Equal(t, l1.AsInt32(), l2.AsInt32())

	for _, l := range l1.AsInt32() {
		ok := l == -1 || l == 255 || (l >= 0 && int(l) < opts.C)
		assert.True(t, ok, "label %d", l)
	}
}

func TestRealMainRejectsBadConfig(t *testing.T) {
	assert.Error(t, realMain([]string{"-backend", "tpu"}))
	assert.Error(t, realMain([]string{"-ignore", "x", "-n", "1", "-c", "2", "-h", "2", "-w", "2"}))
	assert.Error(t, realMain([]string{"-unknown-flag"}))
}

func TestRealMainSmallRun(t *testing.T) {
	t.Setenv(config.EnvMetricsAddr, "")
	t.Setenv(config.EnvBackend, config.BackendCPU)
	require.NoError(t, realMain([]string{"-n", "1", "-c", "3", "-h", "4", "-w", "4", "-mode", "pixel", "-log-level", "error"}))
}
