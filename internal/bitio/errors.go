package bitio

import "errors"

// ErrBadArgument is returned for non-buffer input or a negative width/index.
var ErrBadArgument = errors.New("bitio: bad argument")

// ErrOutOfRange is returned when a bit index or word falls outside the buffer.
var ErrOutOfRange = errors.New("bitio: bit index out of range")

// ErrBadWidth is returned when a word width exceeds 64 bits.
var ErrBadWidth = errors.New("bitio: word width exceeds 64 bits")
