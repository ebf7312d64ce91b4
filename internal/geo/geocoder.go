package geo

import (
	"context"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
)

// Location is a resolved place with coordinates.
type Location struct {
	Name             string
	FormattedAddress string
	Coordinates      domain.GeoPoint
}

// Geocoder resolves a free-form place query to coordinates. found is false
// when the service answered but knows no such place; err covers transport
// and service failures.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (loc Location, found bool, err error)
}
