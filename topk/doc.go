// Package topk selects the k largest or smallest elements of a column.
//
// The result is the first k entries of a full ranking whose ties are broken by
// input position: ascending position for KeepFirst, descending for KeepLast.
// For the sequence [0 1 1 2 2 2 3 3]:
//
//	largest,  k=3, first -> values [3 3 2], positions [6 7 3]
//	largest,  k=3, last  -> values [3 3 2], positions [7 6 5]
//	smallest, k=3, first -> values [0 1 1], positions [0 1 2]
//	smallest, k=3, last  -> values [0 1 1], positions [0 2 1]
//
// Small k is served by a bounded heap in O(n log k); larger k ranks the whole
// input. Both paths return identical results.
package topk
