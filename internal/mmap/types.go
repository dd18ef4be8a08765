package mmap

import "errors"

// AccessPattern is a read-ahead hint passed to the kernel.
type AccessPattern int

const (
	AccessDefault AccessPattern = iota
	// AccessSequential suits whole-snapshot decodes.
	AccessSequential
	// AccessRandom suits header probes and ranged reads.
	AccessRandom
)

var (
	ErrClosed        = errors.New("mmap: mapping is closed")
	ErrInvalidSize   = errors.New("mmap: file too large to map")
	ErrInvalidOffset = errors.New("mmap: negative offset")
)
