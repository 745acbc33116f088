package services

import (
	"sort"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/point"
)

// Cluster groups the orders to be planned from one pickup point. The point's
// coordinates are the depot of every route built for the cluster.
type Cluster struct {
	Point  *point.Point
	Orders []*order.Order
}

// SkippedOrder describes an order excluded from planning, with the reason the
// caller reports back to the dispatcher.
type SkippedOrder struct {
	OrderID kernel.UUID
	Reason  string
}

// Skip reasons reported by ClusterOrders.
const (
	SkipReasonNotPlannable  = "order is not in a plannable status"
	SkipReasonAlreadyRouted = "order is already on a route"
	SkipReasonNoCoordinates = "order destination is not geocoded"
	SkipReasonUnknownPoint  = "order references an unknown pickup point"
)

// ClusterOrders partitions orders by their pickup point. Only planned,
// unrouted, geocoded orders with a known point are clustered; everything else
// is reported skipped rather than failing the run.
//
// Output is deterministic: clusters sorted by point id, orders within a
// cluster sorted by order id.
func ClusterOrders(points []*point.Point, orders []*order.Order) ([]Cluster, []SkippedOrder) {
	byID := make(map[kernel.UUID]*point.Point, len(points))
	for _, p := range points {
		byID[p.ID()] = p
	}

	grouped := make(map[kernel.UUID][]*order.Order)
	var skipped []SkippedOrder

	for _, o := range orders {
		switch {
		case o.Status() != order.Planned:
			skipped = append(skipped, SkippedOrder{OrderID: o.ID(), Reason: SkipReasonNotPlannable})
		case o.RouteID() != nil:
			skipped = append(skipped, SkippedOrder{OrderID: o.ID(), Reason: SkipReasonAlreadyRouted})
		case !o.HasCoordinates():
			skipped = append(skipped, SkippedOrder{OrderID: o.ID(), Reason: SkipReasonNoCoordinates})
		default:
			if _, ok := byID[o.PointID()]; !ok {
				skipped = append(skipped, SkippedOrder{OrderID: o.ID(), Reason: SkipReasonUnknownPoint})
				continue
			}
			grouped[o.PointID()] = append(grouped[o.PointID()], o)
		}
	}

	clusters := make([]Cluster, 0, len(grouped))
	for pointID, members := range grouped {
		sort.Slice(members, func(i, j int) bool {
			return members[i].ID().String() < members[j].ID().String()
		})
		clusters = append(clusters, Cluster{Point: byID[pointID], Orders: members})
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Point.ID().String() < clusters[j].Point.ID().String()
	})

	return clusters, skipped
}
