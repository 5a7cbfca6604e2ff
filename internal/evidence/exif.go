package evidence

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"casefile-backend/internal/shared/telemetry"
)

// ExtractCaptureMetadata pulls the provenance-relevant EXIF fields from an
// image. Extraction is best effort: images with no EXIF block, or non-JPEG
// formats that goexif cannot read, yield an empty map, never an error. An
// empty map is itself a forensic signal downstream.
func ExtractCaptureMetadata(image []byte) CaptureMetadata {
	meta := CaptureMetadata{}

	x, err := exif.Decode(bytes.NewReader(image))
	if err != nil {
		telemetry.Info("exif.none", map[string]any{"reason": err.Error()})
		return meta
	}

	for _, field := range []exif.FieldName{exif.Make, exif.Model, exif.DateTimeOriginal, exif.Software} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		if v, err := tag.StringVal(); err == nil && strings.TrimSpace(v) != "" {
			meta[string(field)] = strings.TrimSpace(v)
		}
	}

	if lat, long, err := x.LatLong(); err == nil {
		meta["GPSLatitude"] = fmt.Sprintf("%.6f", lat)
		meta["GPSLongitude"] = fmt.Sprintf("%.6f", long)
	}

	return meta
}
