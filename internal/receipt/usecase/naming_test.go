package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileExtension(t *testing.T) {
	tests := []struct {
		name, original, contentType, want string
	}{
		{name: "from name", original: "receipt.PNG", contentType: "image/jpeg", want: ".png"},
		{name: "from jpeg subtype", original: "receipt", contentType: "image/jpeg", want: ".jpg"},
		{name: "from subtype with params", original: "", contentType: "image/webp; q=1", want: ".webp"},
		{name: "pjpeg", original: "", contentType: "image/pjpeg", want: ".pjpg"},
		{name: "nothing known", original: "", contentType: "", want: ".jpg"},
		{name: "octet stream", original: "blob", contentType: "application/octet-stream", want: ".jpg"},
		{name: "trailing dot", original: "receipt.", contentType: "image/png", want: ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fileExtension(tt.original, tt.contentType))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "12.5", want: "12.50", ok: true},
		{raw: " 7 ", want: "7.00", ok: true},
		{raw: "0.005", want: "0.01", ok: true},
		{raw: "1e2", want: "100.00", ok: true},
		{raw: "0", ok: false},
		{raw: "-5", ok: false},
		{raw: "", ok: false},
		{raw: "12abc", ok: false},
		{raw: "NaN", ok: false},
		{raw: "Inf", ok: false},
		{raw: "0x1p3", ok: false},
		{raw: "0X1.8p1", ok: false},
		{raw: "1_000", ok: false},
		{raw: ".5", want: "0.50", ok: true},
		{raw: "3.", want: "3.00", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseAmount(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimestamps(t *testing.T) {
	now := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)
	display, stamp := timestamps(now, time.FixedZone("UTC+8", 8*60*60))
	assert.Equal(t, "2024-01-01 07:59:59", display)
	assert.Equal(t, "20240101075959", stamp)
}

func TestEffectiveContentType(t *testing.T) {
	assert.Equal(t, "image/png", effectiveContentType("image/png", jpegBytes))
	assert.Equal(t, "image/jpeg", effectiveContentType("", jpegBytes))
	assert.Equal(t, "image/jpeg", effectiveContentType("application/octet-stream", jpegBytes))
}
