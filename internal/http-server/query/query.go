package query

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
)

func Int(r *http.Request, key string) (val int, present bool, err error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%s must be integer", key)
	}
	return n, true, nil
}

func Float(r *http.Request, key string) (val float64, present bool, err error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, fmt.Errorf("%s must be a number", key)
	}
	return f, true, nil
}

// FloatAny returns the first of keys that is present.
func FloatAny(r *http.Request, keys ...string) (val float64, present bool, err error) {
	for _, k := range keys {
		v, ok, e := Float(r, k)
		if e != nil {
			return 0, false, e
		}
		if ok {
			return v, true, nil
		}
	}
	return 0, false, nil
}

// Coordinates reads an optional lat/lon pair. Both or neither must be given.
func Coordinates(r *http.Request) (lat, lng float64, present bool, err error) {
	lat, hasLat, err := Float(r, "lat")
	if err != nil {
		return 0, 0, false, err
	}
	lng, hasLng, err := FloatAny(r, "lon", "lng")
	if err != nil {
		return 0, 0, false, err
	}
	if hasLat != hasLng {
		return 0, 0, false, fmt.Errorf("lat and lon must be given together")
	}
	if !hasLat {
		return 0, 0, false, nil
	}
	if lat < -90 || lat > 90 {
		return 0, 0, false, fmt.Errorf("lat must be within [-90, 90]")
	}
	if lng < -180 || lng > 180 {
		return 0, 0, false, fmt.Errorf("lon must be within [-180, 180]")
	}
	return lat, lng, true, nil
}
