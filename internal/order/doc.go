// Package order computes stable ranking permutations.
//
// Rank sorts positions, not values: the keys are read through the position
// array and never moved, so the result can reorder any number of bound
// columns at once. The sort is a bottom-up merge sort (insertion-sorted runs,
// then ping-pong merges between the position array and one scratch buffer),
// which keeps equal keys in input order without relying on the tie rule.
//
// Tie rules:
//
//   - TiesStable: equal keys keep ascending input position in either direction.
//     Descending is therefore not the reverse of ascending.
//   - TiesReverse: equal keys in descending input position. Used by top-k
//     selection with keep=last.
//
// NaN keys compare equal to each other and are placed after (NullsLast) or
// before (NullsFirst) every other key, independently of the direction.
package order
