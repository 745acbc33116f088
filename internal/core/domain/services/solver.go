package services

import (
	"fmt"
	"sort"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

const defaultImprovementIterations = 128

// CostMatrix holds pairwise travel costs for one routing profile. Index 0 is
// the depot; index i+1 corresponds to the i-th order handed to Solve. All
// three slices are square with side n+1; Geometries entries may be empty when
// the provider returned no path for a pair.
type CostMatrix struct {
	Distances  [][]float64
	Durations  [][]time.Duration
	Geometries [][]string
}

func (m CostMatrix) validate(size int) error {
	if len(m.Distances) != size || len(m.Durations) != size {
		return errs.NewValueIsInvalidErrorWithCause("cost matrix",
			fmt.Errorf("expected %dx%d matrix, got %dx%d", size, size, len(m.Distances), len(m.Durations)))
	}
	for i := range m.Distances {
		if len(m.Distances[i]) != size || len(m.Durations[i]) != size {
			return errs.NewValueIsInvalidErrorWithCause("cost matrix",
				fmt.Errorf("row %d is not %d wide", i, size))
		}
	}
	return nil
}

// Geometry returns the encoded path for a pair, or "" when the provider
// supplied none.
func (m CostMatrix) Geometry(from, to int) string {
	if from < len(m.Geometries) && to < len(m.Geometries[from]) {
		return m.Geometries[from][to]
	}
	return ""
}

// SolverCourier pairs a courier with the capacity still available to it
// today. Capacity already consumed by an active route is subtracted by the
// caller before solving.
type SolverCourier struct {
	Courier  *courier.Courier
	Capacity int
}

// SolverConfig tunes the assignment solver.
type SolverConfig struct {
	// RouteStart is the planned departure time as an offset from midnight of
	// the visit day. Arrival offsets checked against order windows grow from
	// here.
	RouteStart time.Duration

	// WindowSlack is how far past an order's window end an arrival may land
	// and still count as feasible.
	WindowSlack time.Duration

	// ImprovementIterations caps the local search loop per route.
	ImprovementIterations int
}

// Leg is one drive between consecutive stops of a planned route, including
// the initial depot departure and the final return.
type Leg struct {
	DistanceMeters float64
	Duration       time.Duration
	Geometry       string
}

// PlannedRoute is the solver's output for one courier: orders in visit
// sequence plus the legs connecting depot, stops, and depot again.
type PlannedRoute struct {
	Courier        *courier.Courier
	Orders         []*order.Order
	Legs           []Leg
	DistanceMeters float64
	Duration       time.Duration
}

// SolveResult is the outcome for one cluster. Orders that fit no courier end
// up in Unassigned; capacity overflow is a remainder here, not an error.
type SolveResult struct {
	Routes     []PlannedRoute
	Unassigned []*order.Order
}

// AssignmentSolver builds capacitated routes for one cluster.
//
// The heuristic is greedy cheapest insertion followed by bounded local
// improvement. Couriers are filled in ascending id order; each takes the
// order whose cheapest feasible insertion, return leg included, costs the
// least extra distance, until its capacity is reached or nothing feasible
// remains. Feasibility checks every stop's time window with the configured
// slack against the cumulative schedule of travel, waiting, and service
// durations. Ties break toward the lowest order id, which together with the
// sorted inputs makes the result deterministic for identical inputs.
type AssignmentSolver struct {
	config SolverConfig
}

// NewAssignmentSolver creates a solver with the given tuning. A non-positive
// iteration cap falls back to the default.
func NewAssignmentSolver(config SolverConfig) AssignmentSolver {
	if config.ImprovementIterations <= 0 {
		config.ImprovementIterations = defaultImprovementIterations
	}
	return AssignmentSolver{config: config}
}

// Solve assigns orders to couriers and sequences each courier's stops.
// Matrices are keyed by routing profile; every profile the couriers resolve
// to must be present, and each matrix indexes depot first then orders in the
// given slice order. Callers pass orders in the clusterer's id-sorted order,
// which is what makes tie-breaking land on the lowest order id.
func (s AssignmentSolver) Solve(
	orders []*order.Order,
	couriers []SolverCourier,
	matrices map[string]CostMatrix,
	profiles courier.ProfileMap,
) (SolveResult, error) {
	couriers = sortedCouriers(couriers)

	// Couriers with no capacity left take no orders, so their profile needs
	// no matrix either.
	size := len(orders) + 1
	for _, sc := range couriers {
		if sc.Capacity <= 0 {
			continue
		}
		profile := sc.Courier.Profile(profiles)
		m, ok := matrices[profile]
		if !ok {
			return SolveResult{}, errs.NewValueIsRequiredError(
				fmt.Sprintf("cost matrix for profile %q", profile))
		}
		if err := m.validate(size); err != nil {
			return SolveResult{}, err
		}
	}

	assigned := make([]bool, len(orders))
	var routes []PlannedRoute

	for _, sc := range couriers {
		if sc.Capacity <= 0 {
			continue
		}

		m := matrices[sc.Courier.Profile(profiles)]
		seq := s.buildSequence(m, orders, assigned, sc.Capacity)
		if len(seq) == 0 {
			continue
		}

		seq = s.improve(m, orders, seq)
		routes = append(routes, s.assemble(m, orders, sc.Courier, seq))
		for _, idx := range seq {
			assigned[idx-1] = true
		}
	}

	var unassigned []*order.Order
	for i, o := range orders {
		if !assigned[i] {
			unassigned = append(unassigned, o)
		}
	}

	return SolveResult{Routes: routes, Unassigned: unassigned}, nil
}

// buildSequence greedily grows one courier's stop sequence. Returned values
// are matrix indices (order slice index + 1).
func (s AssignmentSolver) buildSequence(m CostMatrix, orders []*order.Order, assigned []bool, capacity int) []int {
	var seq []int

	for len(seq) < capacity {
		bestIdx, bestPos := -1, -1
		bestDelta := 0.0

		for i := range orders {
			if assigned[i] {
				continue
			}
			taken := false
			for _, idx := range seq {
				if idx == i+1 {
					taken = true
					break
				}
			}
			if taken {
				continue
			}

			pos, delta, ok := s.cheapestInsertion(m, orders, seq, i+1)
			if !ok {
				continue
			}
			// With id-sorted input, strict < keeps the lowest id on ties.
			if bestIdx == -1 || delta < bestDelta {
				bestIdx, bestPos, bestDelta = i+1, pos, delta
			}
		}

		if bestIdx == -1 {
			break
		}
		seq = insertAt(seq, bestPos, bestIdx)
	}

	return seq
}

// cheapestInsertion finds the position in seq where inserting candidate adds
// the least distance while keeping the schedule feasible.
func (s AssignmentSolver) cheapestInsertion(m CostMatrix, orders []*order.Order, seq []int, candidate int) (int, float64, bool) {
	bestPos := -1
	bestDelta := 0.0

	for pos := 0; pos <= len(seq); pos++ {
		prev, next := 0, 0
		if pos > 0 {
			prev = seq[pos-1]
		}
		if pos < len(seq) {
			next = seq[pos]
		}

		delta := m.Distances[prev][candidate] + m.Distances[candidate][next] - m.Distances[prev][next]
		if bestPos != -1 && delta >= bestDelta {
			continue
		}
		if !s.feasible(m, orders, insertAt(seq, pos, candidate)) {
			continue
		}
		bestPos, bestDelta = pos, delta
	}

	return bestPos, bestDelta, bestPos != -1
}

// feasible walks the schedule of a candidate sequence and checks every stop's
// window. The clock advances by travel, waits for early arrivals, then adds
// the stop's service duration.
func (s AssignmentSolver) feasible(m CostMatrix, orders []*order.Order, seq []int) bool {
	clock := s.config.RouteStart
	prev := 0

	for _, idx := range seq {
		clock += m.Durations[prev][idx]
		o := orders[idx-1]
		if !o.Window().FitsWithSlack(clock, s.config.WindowSlack) {
			return false
		}
		clock = o.Window().EffectiveStart(clock) + o.ServiceDuration()
		prev = idx
	}

	return true
}

// improve runs bounded local search over one sequence: adjacent swaps and
// single relocations, accepting only strict distance improvements.
func (s AssignmentSolver) improve(m CostMatrix, orders []*order.Order, seq []int) []int {
	best := s.distance(m, seq)

	for iter := 0; iter < s.config.ImprovementIterations; iter++ {
		improved := false

		for i := 0; i+1 < len(seq) && !improved; i++ {
			swapped := append([]int(nil), seq...)
			swapped[i], swapped[i+1] = swapped[i+1], swapped[i]
			if d := s.distance(m, swapped); d < best && s.feasible(m, orders, swapped) {
				seq, best, improved = swapped, d, true
			}
		}

		for i := 0; i < len(seq) && !improved; i++ {
			for j := 0; j <= len(seq)-1 && !improved; j++ {
				if j == i {
					continue
				}
				moved := relocate(seq, i, j)
				if d := s.distance(m, moved); d < best && s.feasible(m, orders, moved) {
					seq, best, improved = moved, d, true
				}
			}
		}

		if !improved {
			break
		}
	}

	return seq
}

func (s AssignmentSolver) distance(m CostMatrix, seq []int) float64 {
	total := 0.0
	prev := 0
	for _, idx := range seq {
		total += m.Distances[prev][idx]
		prev = idx
	}
	return total + m.Distances[prev][0]
}

// assemble turns a final sequence into a PlannedRoute with per-leg costs and
// geometry, return leg included.
func (s AssignmentSolver) assemble(m CostMatrix, orders []*order.Order, c *courier.Courier, seq []int) PlannedRoute {
	route := PlannedRoute{Courier: c}

	clock := s.config.RouteStart
	prev := 0
	for _, idx := range seq {
		leg := Leg{
			DistanceMeters: m.Distances[prev][idx],
			Duration:       m.Durations[prev][idx],
			Geometry:       m.Geometry(prev, idx),
		}
		route.Legs = append(route.Legs, leg)
		route.DistanceMeters += leg.DistanceMeters

		o := orders[idx-1]
		route.Orders = append(route.Orders, o)
		clock += leg.Duration
		clock = o.Window().EffectiveStart(clock) + o.ServiceDuration()
		prev = idx
	}

	returnLeg := Leg{
		DistanceMeters: m.Distances[prev][0],
		Duration:       m.Durations[prev][0],
		Geometry:       m.Geometry(prev, 0),
	}
	route.Legs = append(route.Legs, returnLeg)
	route.DistanceMeters += returnLeg.DistanceMeters
	route.Duration = clock + returnLeg.Duration - s.config.RouteStart

	return route
}

func insertAt(seq []int, pos, value int) []int {
	out := make([]int, 0, len(seq)+1)
	out = append(out, seq[:pos]...)
	out = append(out, value)
	return append(out, seq[pos:]...)
}

func relocate(seq []int, from, to int) []int {
	out := make([]int, 0, len(seq))
	for i, v := range seq {
		if i != from {
			out = append(out, v)
		}
	}
	if to > len(out) {
		to = len(out)
	}
	return insertAt(out, to, seq[from])
}

func sortedCouriers(couriers []SolverCourier) []SolverCourier {
	out := append([]SolverCourier(nil), couriers...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Courier.ID().String() < out[j].Courier.ID().String()
	})
	return out
}
