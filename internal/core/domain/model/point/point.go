package point

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for point operations.
var (
	// ErrPointIsNotConstructed is returned when using an improperly initialized Point.
	ErrPointIsNotConstructed = errors.New("Point must be created via NewPoint or RestorePoint constructor")
	// ErrNameIsRequired is returned when attempting to create a point without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrAddressIsRequired is returned when attempting to create a point without an address.
	ErrAddressIsRequired = errs.NewValueIsRequiredError("address")
)

// Point represents a depot a tenant dispatches routes from. Orders reference
// a point, the clusterer groups them by it, and its coordinates are the start
// and return leg of every route built for that cluster.
//
// At most one point per tenant is primary. The flag itself lives here; the
// at-most-one invariant is enforced on write by the repository, which clears
// the previous primary in the same transaction.
type Point struct {
	id       kernel.UUID
	tenantID kernel.UUID
	name     string
	address  string
	location kernel.GeoPoint
	primary  bool

	guard guard.ConstructorGuard
}

// NewPoint creates a new non-primary Point.
func NewPoint(
	id kernel.UUID,
	tenantID kernel.UUID,
	name string,
	address string,
	location kernel.GeoPoint,
) (*Point, error) {
	p := &Point{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setTenantID(tenantID),
		p.setName(name),
		p.setAddress(address),
		p.setLocation(location),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestorePoint reconstructs a Point from persistent storage.
func RestorePoint(
	id kernel.UUID,
	tenantID kernel.UUID,
	name string,
	address string,
	location kernel.GeoPoint,
	primary bool,
) (*Point, error) {
	p, err := NewPoint(id, tenantID, name, address, location)
	if err != nil {
		return nil, err
	}

	p.primary = primary
	return p, nil
}

// Validate ensures the Point was created through a constructor.
func (p *Point) Validate() error {
	if p == nil {
		return ErrPointIsNotConstructed
	}
	return p.guard.Validate(ErrPointIsNotConstructed)
}

// IsEqual compares two points by identity.
func (p *Point) IsEqual(other *Point) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the point's unique identifier.
func (p *Point) ID() kernel.UUID {
	return p.id
}

// TenantID returns the owning tenant.
func (p *Point) TenantID() kernel.UUID {
	return p.tenantID
}

// Name returns the point's display name.
func (p *Point) Name() string {
	return p.name
}

// Address returns the point's street address.
func (p *Point) Address() string {
	return p.address
}

// Location returns the point's coordinates.
func (p *Point) Location() kernel.GeoPoint {
	return p.location
}

// IsPrimary reports whether this is the tenant's default depot.
func (p *Point) IsPrimary() bool {
	return p.primary
}

// MarkPrimary flags the point as the tenant's default depot. The repository
// clears the previous primary in the same transaction.
func (p *Point) MarkPrimary() {
	p.primary = true
}

// ClearPrimary drops the default depot flag.
func (p *Point) ClearPrimary() {
	p.primary = false
}

// Relocate updates the point's coordinates, e.g. after re-geocoding the
// address. Routes already built keep their persisted geometry.
func (p *Point) Relocate(location kernel.GeoPoint) error {
	return p.setLocation(location)
}

func (p *Point) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Point) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("tenant", err)
	}
	p.tenantID = tenantID
	return nil
}

func (p *Point) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

func (p *Point) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}
	p.address = address
	return nil
}

func (p *Point) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	p.location = location
	return nil
}
