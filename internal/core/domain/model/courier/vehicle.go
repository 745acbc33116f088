package courier

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// VehicleClass categorizes what a courier drives. Each class maps to a travel
// cost provider routing profile via a ProfileMap; different classes can yield
// different cost matrices since the profile affects eligible roads and speeds.
type VehicleClass int

const (
	// VehicleUnknown represents an invalid or undefined vehicle class.
	VehicleUnknown VehicleClass = iota

	// VehicleCar is a passenger car.
	VehicleCar

	// VehicleTruck is a heavy goods vehicle.
	VehicleTruck

	// VehicleBicycle is a bicycle.
	VehicleBicycle

	// VehicleScooter is a motor scooter.
	VehicleScooter
)

func getVehicleClassStrings() map[VehicleClass]string {
	return map[VehicleClass]string{
		VehicleUnknown: "unknown",
		VehicleCar:     "car",
		VehicleTruck:   "truck",
		VehicleBicycle: "bicycle",
		VehicleScooter: "scooter",
	}
}

// VehicleClassFromString maps a persisted vehicle class string back to a value.
func VehicleClassFromString(s string) (VehicleClass, error) {
	for class, str := range getVehicleClassStrings() {
		if class != VehicleUnknown && str == s {
			return class, nil
		}
	}
	return VehicleUnknown, errs.NewValueIsInvalidErrorWithCause("vehicle class",
		fmt.Errorf("%q is not a valid vehicle class", s))
}

// Validate checks if the VehicleClass value is valid.
func (v VehicleClass) Validate() error {
	switch v {
	case VehicleCar, VehicleTruck, VehicleBicycle, VehicleScooter:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("vehicle class",
			fmt.Errorf("%d is not a valid vehicle class", v))
	}
}

// String returns the persisted/displayed name of the vehicle class.
func (v VehicleClass) String() string {
	if s, ok := getVehicleClassStrings()[v]; ok {
		return s
	}
	return "unknown"
}

// ProfileMap is the configurable table mapping vehicle classes to travel cost
// provider routing profiles. Kept as configuration rather than a hardcoded
// switch: deployments tune it without code changes.
type ProfileMap map[VehicleClass]string

// DefaultProfileMap returns the stock class-to-profile table. Scooters reuse
// the car profile by default; override via configuration if the provider
// grows a dedicated scooter profile.
func DefaultProfileMap() ProfileMap {
	return ProfileMap{
		VehicleCar:     "driving-car",
		VehicleTruck:   "driving-hgv",
		VehicleBicycle: "cycling-regular",
		VehicleScooter: "driving-car",
	}
}

// Profile resolves the routing profile for a vehicle class, falling back to
// the car profile for classes absent from the table.
func (m ProfileMap) Profile(class VehicleClass) string {
	if p, ok := m[class]; ok && p != "" {
		return p
	}
	return m[VehicleCar]
}
