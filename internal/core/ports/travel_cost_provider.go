package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

// TravelCostProvider abstracts the external routing service that prices travel
// between coordinates.
//
// Implementations bound every call with their configured timeout and retry
// exactly once, immediately, on a transient network failure. Any failure that
// survives the retry is normalized to ProviderUnavailableError so callers can
// fail the affected cluster without inspecting transport details.
type TravelCostProvider interface {
	// Matrix fetches pairwise travel costs for one routing profile. The
	// returned matrix indexes the depot first, then destinations in the given
	// slice order, and carries per-pair encoded path geometry where the
	// provider supplies it.
	Matrix(ctx context.Context, profile string, depot kernel.GeoPoint, destinations []kernel.GeoPoint) (services.CostMatrix, error)

	// Geocode resolves a street address to coordinates.
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}
