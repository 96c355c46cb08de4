package geo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/techagentng/oceanwatch/models"
)

// ErrLocationUnavailable means the caller's position could not be resolved.
var ErrLocationUnavailable = errors.New("location unavailable")

// LocationProvider resolves the current user's position.
type LocationProvider interface {
	Locate(ctx context.Context) (models.Point, error)
}

// StaticLocationProvider returns a fixed point, or ErrLocationUnavailable when unset.
type StaticLocationProvider struct {
	Point *models.Point
}

func (p StaticLocationProvider) Locate(ctx context.Context) (models.Point, error) {
	if err := ctx.Err(); err != nil {
		return models.Point{}, err
	}
	if p.Point == nil {
		return models.Point{}, ErrLocationUnavailable
	}
	return *p.Point, nil
}

// Resolve asks the provider for a location and returns nil when none is available.
func Resolve(ctx context.Context, p LocationProvider) *models.Point {
	if p == nil {
		return nil
	}
	pt, err := p.Locate(ctx)
	if err != nil {
		return nil
	}
	return &pt
}

// ParsePoint reads "lat,lng".
func ParsePoint(v string) (*models.Point, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("point %q: want lat,lng", v)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("point %q: %w", v, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("point %q: %w", v, err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("point %q out of range", v)
	}
	return &models.Point{Lat: lat, Lng: lng}, nil
}
