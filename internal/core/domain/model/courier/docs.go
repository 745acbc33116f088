// Package courier provides domain entities and business logic for courier
// management. It implements the Courier aggregate root covering planning
// identity (vehicle class, capacity), the auth-code session binding protocol,
// and live shift/location state.
//
// The package includes:
//   - Courier: the aggregate root, scoped to one tenant
//   - VehicleClass / ProfileMap: vehicle classes and their configurable
//     mapping to travel cost provider routing profiles
//   - AuthCode: the single-use numeric code binding a courier to a channel
//
// Shift toggles and location updates are accepted only from the channel
// identity that completed the code exchange; the binding is durable, the
// code is not.
package courier
