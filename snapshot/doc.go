// Package snapshot persists column tables.
//
// A snapshot is a small fixed header followed by a body: the table encoded
// with a codec (go-json by default, gob for NaN-bearing float columns) and cut
// into LZ4 or ZSTD compressed blocks. The header records the codec name, the
// compression and a CRC32C of the body, so a reader needs no options to decode
// a snapshot written with any built-in codec.
//
// Snapshots can be written to any io.Writer (Write, Marshal), saved under a
// name in a blobstore.BlobStore (Save, Load), or committed as numbered versions
// of a table:
//
//	tables/<name>/00000000000000000001.snap
//	tables/<name>/00000000000000000002.snap
//	tables/<name>/CURRENT -> tables/<name>/00000000000000000002.snap
//
//	version, err := snapshot.Commit(ctx, store, "prices", table)
//	table, version, err := snapshot.LoadCurrent[float64, int](ctx, store, "prices")
//
// Pass WithController to bound snapshot IO bandwidth and decode memory with a
// resource.Controller.
package snapshot
