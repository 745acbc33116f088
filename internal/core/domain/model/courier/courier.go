package courier

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier constructor")
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCapacityIsRequired is returned when attempting to create a courier with capacity <= 0.
	ErrCapacityIsRequired = errs.NewValueIsRequiredError("capacity")
	// ErrChannelNotBound is returned when a courier-channel action arrives for
	// a courier that never completed the auth code exchange.
	ErrChannelNotBound = errors.New("courier has no bound channel")
	// ErrChannelMismatch is returned when an action arrives from a channel
	// identity other than the one bound to the courier.
	ErrChannelMismatch = errors.New("action is not from the courier's bound channel")
)

// Courier represents a delivery courier in the system. It is an aggregate
// root scoped to one tenant, covering three concerns:
//
//   - planning identity: vehicle class (resolving to a routing profile) and
//     capacity in order units, consumed by the assignment solver
//   - session binding: a single-use auth code exchanged once by the courier's
//     channel for a durable channel identity
//   - live state: on-shift flag and last-known coordinates, writable only
//     from the bound channel; each location update overwrites the previous
//     one, no history is kept here
type Courier struct {
	id       kernel.UUID
	tenantID kernel.UUID
	name     string

	vehicle  VehicleClass
	capacity int
	home     kernel.GeoPoint

	channelID string
	authCode  *AuthCode

	onShift    bool
	lastSeen   *kernel.GeoPoint
	lastSeenAt time.Time

	guard guard.ConstructorGuard
}

// NewCourier creates a new Courier with no session binding, off shift.
//
// Capacity is the maximum number of orders the courier may carry in one
// active route; it must be positive.
func NewCourier(
	id kernel.UUID,
	tenantID kernel.UUID,
	name string,
	vehicle VehicleClass,
	capacity int,
	home kernel.GeoPoint,
) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setTenantID(tenantID),
		c.setName(name),
		c.setVehicle(vehicle),
		c.setCapacity(capacity),
		c.setHome(home),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a Courier from persistent storage, including
// its session binding and live state.
func RestoreCourier(
	id kernel.UUID,
	tenantID kernel.UUID,
	name string,
	vehicle VehicleClass,
	capacity int,
	home kernel.GeoPoint,
	channelID string,
	authCode *AuthCode,
	onShift bool,
	lastSeen *kernel.GeoPoint,
	lastSeenAt time.Time,
) (*Courier, error) {
	c, err := NewCourier(id, tenantID, name, vehicle, capacity, home)
	if err != nil {
		return nil, err
	}

	if authCode != nil {
		if err = authCode.Validate(); err != nil {
			return nil, err
		}
	}
	if lastSeen != nil {
		if err = lastSeen.Validate(); err != nil {
			return nil, err
		}
	}

	c.channelID = channelID
	c.authCode = authCode
	c.onShift = onShift
	c.lastSeen = lastSeen
	c.lastSeenAt = lastSeenAt
	return c, nil
}

// Validate ensures the Courier was created through a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by identity.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// TenantID returns the owning tenant.
func (c *Courier) TenantID() kernel.UUID {
	return c.tenantID
}

// Name returns the courier's name.
func (c *Courier) Name() string {
	return c.name
}

// Vehicle returns the courier's vehicle class.
func (c *Courier) Vehicle() VehicleClass {
	return c.vehicle
}

// Profile resolves the courier's routing profile through the given table.
func (c *Courier) Profile(profiles ProfileMap) string {
	return profiles.Profile(c.vehicle)
}

// Capacity returns the maximum order count for one active route.
func (c *Courier) Capacity() int {
	return c.capacity
}

// Home returns the courier's home/start coordinates.
func (c *Courier) Home() kernel.GeoPoint {
	return c.home
}

// IsOnShift reports whether the courier is accepting work.
func (c *Courier) IsOnShift() bool {
	return c.onShift
}

// ChannelID returns the bound channel identity, or "" if unbound.
func (c *Courier) ChannelID() string {
	return c.channelID
}

// IsBound reports whether a channel identity completed the code exchange.
func (c *Courier) IsBound() bool {
	return c.channelID != ""
}

// AuthCode returns the currently issued code, or nil if none is pending.
func (c *Courier) AuthCode() *AuthCode {
	return c.authCode
}

// LastSeen returns the courier's last reported coordinates (nil if never
// reported) and the time of the report.
func (c *Courier) LastSeen() (*kernel.GeoPoint, time.Time) {
	return c.lastSeen, c.lastSeenAt
}

// IssueAuthCode installs a fresh single-use code valid for ttl from now.
// Any previously issued code is invalidated, consumed or not: the dispatcher
// regenerating a code is the recovery path for a lost one.
func (c *Courier) IssueAuthCode(code string, ttl time.Duration, now time.Time) error {
	if ttl <= 0 {
		return errs.NewValueIsInvalidError("auth code ttl")
	}

	authCode, err := NewAuthCode(code, now.Add(ttl))
	if err != nil {
		return err
	}

	c.authCode = &authCode
	return nil
}

// BindChannel performs the one-shot code exchange. On a valid, unconsumed,
// unexpired match the channel identity binds durably and the code is
// consumed. Any other submission returns ErrAuthCodeRejected and leaves the
// binding untouched.
func (c *Courier) BindChannel(code, channelID string, now time.Time) error {
	if channelID == "" {
		return errs.NewValueIsRequiredError("channel identity")
	}
	if c.authCode == nil || !c.authCode.Matches(code, now) {
		return ErrAuthCodeRejected
	}

	consumed, err := RestoreAuthCode(c.authCode.Code(), c.authCode.ExpiresAt(), true)
	if err != nil {
		return err
	}

	c.authCode = &consumed
	c.channelID = channelID
	return nil
}

// ExpireAuthCode drops a pending code whose validity window has passed.
// Reports whether anything was dropped. Used by the cleanup sweep.
func (c *Courier) ExpireAuthCode(now time.Time) bool {
	if c.authCode == nil || !c.authCode.IsExpired(now) {
		return false
	}

	c.authCode = nil
	return true
}

// SetOnShift toggles shift state. Accepted only from the bound channel.
func (c *Courier) SetOnShift(channelID string, on bool) error {
	if err := c.requireChannel(channelID); err != nil {
		return err
	}

	c.onShift = on
	return nil
}

// RecordLocation overwrites the courier's last-known coordinates and
// timestamp. Accepted only from the bound channel. No history is kept.
func (c *Courier) RecordLocation(channelID string, at kernel.GeoPoint, reportedAt time.Time) error {
	if err := c.requireChannel(channelID); err != nil {
		return err
	}
	if err := at.Validate(); err != nil {
		return err
	}

	c.lastSeen = &at
	c.lastSeenAt = reportedAt
	return nil
}

func (c *Courier) requireChannel(channelID string) error {
	if c.channelID == "" {
		return ErrChannelNotBound
	}
	if channelID != c.channelID {
		return ErrChannelMismatch
	}
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("tenant", err)
	}
	c.tenantID = tenantID
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setVehicle(vehicle VehicleClass) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	c.vehicle = vehicle
	return nil
}

func (c *Courier) setCapacity(capacity int) error {
	if capacity <= 0 {
		return ErrCapacityIsRequired
	}
	c.capacity = capacity
	return nil
}

func (c *Courier) setHome(home kernel.GeoPoint) error {
	if err := home.Validate(); err != nil {
		return err
	}
	c.home = home
	return nil
}
