// Package compress frames byte streams into independently compressed blocks.
//
// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...].
// CompressedSize == 0 means Data is stored raw, which is also used whenever
// compression does not shrink a block by at least 10%.
package compress
