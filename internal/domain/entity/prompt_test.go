package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"Image", ModeImage},
		{"image", ModeImage},
		{" VIDEO ", ModeVideo},
		{"Text", ModeText},
		{"audio", ModeAudio},
		{"Code", ModeCode},
		{"3d", ModeUnknown},
		{"", ModeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMode(tt.in))
		})
	}
}

func TestModeLabelAndModality(t *testing.T) {
	assert.Equal(t, "Image", ModeImage.Label())
	assert.Equal(t, "Unknown", ModeUnknown.Label())
	assert.Equal(t, "text-to-video", ModeVideo.Modality())
	assert.Empty(t, ModeUnknown.Modality())
}

func TestOptionsGetTrims(t *testing.T) {
	o := Options{OptLighting: "  golden hour \n"}
	assert.Equal(t, "golden hour", o.Get(OptLighting))
	assert.Empty(t, o.Get(OptFraming))

	var nilOpts Options
	assert.Empty(t, nilOpts.Get(OptFraming))
}

func TestParseQuality(t *testing.T) {
	assert.Equal(t, QualityHigh, ParseQuality("HIGH"))
	assert.Equal(t, QualityMedium, ParseQuality("medium"))
	assert.Equal(t, Quality(""), ParseQuality("ultra"))
}
