package codec

import "encoding/json"

// JSON is the encoding/json codec, kept so snapshots stay readable without
// third-party decoders. Neither JSON codec can hold NaN or ±Inf.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSON) Name() string                       { return "json" }
