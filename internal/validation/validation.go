package validation

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrCoordinateMissing is returned when a lat/lon query parameter is absent.
var ErrCoordinateMissing = errors.New("lat and lon are required")

// ErrCoordinateNotANumber is returned when a coordinate does not parse to a finite number.
var ErrCoordinateNotANumber = errors.New("coordinate is not a finite number")

// ErrLatitudeOutOfRange is returned when latitude is outside [-90, 90] under strict validation.
var ErrLatitudeOutOfRange = errors.New("latitude out of range")

// ErrLongitudeOutOfRange is returned when longitude is outside [-180, 180] under strict validation.
var ErrLongitudeOutOfRange = errors.New("longitude out of range")

// ParseCoordinate parses lat/lon query values into a coordinate. NaN and
// infinities are always rejected. When strict is true, latitude must be in
// [-90, 90] and longitude in [-180, 180]; strict mode is a config decision
// because rejecting out-of-range input is a behavior change from the
// historical service, which accepted anything numeric.
func ParseCoordinate(latStr, lonStr string, strict bool) (lat, lon float64, err error) {
	latStr = strings.TrimSpace(latStr)
	lonStr = strings.TrimSpace(lonStr)
	if latStr == "" || lonStr == "" {
		return 0, 0, ErrCoordinateMissing
	}

	lat, err = parseFinite(latStr)
	if err != nil {
		return 0, 0, err
	}
	lon, err = parseFinite(lonStr)
	if err != nil {
		return 0, 0, err
	}

	if strict {
		if lat < -90 || lat > 90 {
			return 0, 0, ErrLatitudeOutOfRange
		}
		if lon < -180 || lon > 180 {
			return 0, 0, ErrLongitudeOutOfRange
		}
	}
	return lat, lon, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrCoordinateNotANumber
	}
	return v, nil
}
