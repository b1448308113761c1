package ports

import (
	"context"

	"sendit/internal/core/domain/model/kernel"
)

// Geocoder resolves free-text addresses to coordinates. Implementations must
// honour ctx cancellation; callers bound every call with a timeout.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (kernel.GeoPoint, error)
}
