// Package conv provides checked integer conversions for lengths that cross
// the snapshot and compression frame boundaries.
//
// Every failure wraps ErrOverflow. Conversions that are safe by construction,
// such as loop indices, use plain casts instead.
package conv
