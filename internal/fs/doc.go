// Package fs abstracts the write side of the local file system so blob stores
// can be tested under injected IO failures.
//
//   - [LocalFS]: Production implementation using the os package
//   - [FaultyFS]: Test utility that fails writes, syncs, closes or renames
//
// Reads go through internal/mmap and are not covered here.
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailAfterBytes: 1024})
package fs
