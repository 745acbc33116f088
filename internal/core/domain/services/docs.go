// Package services holds the domain services of route planning: the
// clusterer, which partitions a day's eligible orders by pickup point, and
// the assignment solver, which builds capacitated stop sequences per courier
// from a pre-fetched cost matrix.
//
// Neither service touches storage or the network. Matrices are fetched by the
// optimize use case through the travel cost provider port and handed in; the
// solver is deterministic for identical inputs.
package services
