package locate

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	ErrPermissionDenied    = errors.New("locate: permission denied")
	ErrLocationUnavailable = errors.New("locate: location unavailable")
)

type Position struct {
	Latitude  float64
	Longitude float64
}

func (p Position) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) ||
		p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: coordinates out of range (%f, %f)", ErrLocationUnavailable, p.Latitude, p.Longitude)
	}
	return nil
}

type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// Static resolves the position from configuration. Sharing must be
// explicitly allowed and a position configured.
type Static struct {
	Allowed  bool
	Position *Position
}

func (s Static) Locate(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}
	if !s.Allowed {
		return Position{}, ErrPermissionDenied
	}
	if s.Position == nil {
		return Position{}, ErrLocationUnavailable
	}
	if err := s.Position.Validate(); err != nil {
		return Position{}, err
	}
	return *s.Position, nil
}

// UserMessage returns the text shown in place of results for err.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Location access was denied. Enable location sharing in your manas config to use this feature."
	case errors.Is(err, ErrLocationUnavailable):
		return "Could not get your location. Please set your coordinates in the manas config."
	default:
		return ""
	}
}
