package biaschannel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabelType(t *testing.T) {
	tests := []struct {
		in      string
		want    LabelType
		wantErr bool
	}{
		{"IMAGE", Image, false},
		{"image", Image, false},
		{" Pixel ", Pixel, false},
		{"PIXEL", Pixel, false},
		{"BOX", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLabelType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelTypeString(t *testing.T) {
	assert.Equal(t, "IMAGE", Image.String())
	assert.Equal(t, "PIXEL", Pixel.String())
	assert.Equal(t, "LabelType(7)", LabelType(7).String())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"zero biases", Config{LabelType: Pixel}, false},
		{"negative bg", Config{BgBias: -0.5, FgBias: 1}, true},
		{"negative fg", Config{BgBias: 1, FgBias: -1}, true},
		{"unknown label type", Config{LabelType: LabelType(3)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewParamsIgnoreSet(t *testing.T) {
	p, err := NewParams(Config{BgBias: 2, FgBias: 3, LabelType: Pixel, IgnoreLabels: []int{255, 7, 255}})
	require.NoError(t, err)

	assert.Equal(t, 2.0, p.BgBias())
	assert.Equal(t, 3.0, p.FgBias())
	assert.Equal(t, Pixel, p.LabelType())
	assert.Equal(t, []int{-1, 7, 255}, p.IgnoreLabels())
	assert.True(t, p.Ignored(PaddingLabel), "padding is always ignored")
	assert.True(t, p.Ignored(255))
	assert.False(t, p.Ignored(0))
	assert.Equal(t, 2.0, p.BiasFor(0))
	assert.Equal(t, 3.0, p.BiasFor(4))
}

func TestNewParamsDoesNotAliasConfig(t *testing.T) {
	cfg := Config{IgnoreLabels: []int{5}}
	p, err := NewParams(cfg)
	require.NoError(t, err)

	cfg.IgnoreLabels[0] = 6
	assert.True(t, p.Ignored(5))
	assert.False(t, p.Ignored(6))
}

func TestNewRejectsNegativeBias(t *testing.T) {
	op, err := New(Config{BgBias: -1, FgBias: 1})
	assert.Nil(t, op)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "bg bias")
}
