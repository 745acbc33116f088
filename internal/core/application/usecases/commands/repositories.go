// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends only on the repositories it actually touches.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// PointRepoFactory provides access to the point repository within a transaction.
	PointRepoFactory interface {
		PointRepository() ports.PointRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// RouteRepoFactory provides access to the route repository within a transaction.
	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	// PointUoW manages transactions for point-only operations.
	PointUoW interface {
		TxManager
		PointRepoFactory
	}

	// PointUoWFactory creates new point unit of work instances.
	PointUoWFactory interface {
		Create() PointUoW
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CourierActionUoW manages transactions for inbound courier actions,
	// which read the courier by channel and update the order and its route.
	CourierActionUoW interface {
		TxManager
		CourierRepoFactory
		OrderRepoFactory
		RouteRepoFactory
	}

	// CourierActionUoWFactory creates unit of work instances for courier actions.
	CourierActionUoWFactory interface {
		Create() CourierActionUoW
	}

	// UoW manages transactions across all aggregates of the planning flow.
	UoW interface {
		TxManager
		PointRepoFactory
		CourierRepoFactory
		OrderRepoFactory
		RouteRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
