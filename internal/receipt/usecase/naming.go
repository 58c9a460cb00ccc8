package usecase

import (
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	displayLayout  = "2006-01-02 15:04:05"
	filenameLayout = "20060102150405"
	defaultExt     = ".jpg"
)

var decimalRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// fileExtension prefers the original name's extension, then the content subtype.
func fileExtension(originalName, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(originalName)); ext != "" && ext != "." {
		return ext
	}

	mediaType, _, _ := strings.Cut(contentType, ";")
	_, subtype, _ := strings.Cut(strings.TrimSpace(mediaType), "/")
	subtype = strings.ToLower(subtype)
	if subtype == "" || subtype == "octet-stream" {
		return defaultExt
	}
	return "." + strings.ReplaceAll(subtype, "jpeg", "jpg")
}

// effectiveContentType sniffs the payload when the client sent no useful type.
func effectiveContentType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(data).String()
}

// parseAmount accepts a finite positive decimal and renders it with two places.
func parseAmount(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !decimalRegex.MatchString(raw) {
		return "", false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return "", false
	}
	return strconv.FormatFloat(v, 'f', 2, 64), true
}

func timestamps(now time.Time, loc *time.Location) (display, filename string) {
	zoned := now.In(loc)
	return zoned.Format(displayLayout), zoned.Format(filenameLayout)
}
