// Package codec centralizes the encoding of snapshot bodies.
//
// Snapshots store the codec name in their header, so changing Default never
// breaks reading snapshots written with another built-in codec.
package codec

import "fmt"

// Codec turns a snapshot body into bytes and back.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	// Name is written into snapshot headers and must never change.
	Name() string
}

// Default is the codec used for new snapshots.
var Default Codec = GoJSON{}

var builtin = map[string]Codec{
	JSON{}.Name():   JSON{},
	GoJSON{}.Name(): GoJSON{},
	Gob{}.Name():    Gob{},
}

// ByName resolves the codec recorded in a snapshot header.
func ByName(name string) (Codec, bool) {
	c, ok := builtin[name]
	return c, ok
}

// MustMarshal panics on encode failure. Tests and benchmarks only.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s: %w", c.Name(), err))
	}
	return b
}
