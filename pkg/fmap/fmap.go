// Package fmap reads and writes firmware region maps (FMAP).
//
// An FMAP is a small table embedded somewhere in a flash image. It starts
// with the "__FMAP__" signature, followed by a header that describes the
// image and a list of area records naming byte ranges of the image:
//
//	header (56 bytes, little-endian, packed)
//	  signature  [8]byte   "__FMAP__"
//	  ver_major  uint8
//	  ver_minor  uint8
//	  base       uint64    physical address of the image
//	  size       uint32    size of the image in bytes
//	  name       [32]byte  NUL padded
//	  nareas     uint16
//	area (42 bytes each)
//	  offset     uint32    relative to the start of the image
//	  size       uint32
//	  name       [32]byte  NUL padded
//	  flags      uint16
//
// Use [Locate] to find and decode the map inside a whole image, or [Decode]
// when the header position is already known.
package fmap

import (
	"strings"
)

const (
	// Signature marks the start of a region map.
	Signature = "__FMAP__"

	// VersionMajor is the only major version this package understands.
	VersionMajor = 1

	// VersionMinor is written by [Map.MarshalBinary] when the map has none.
	VersionMinor = 1

	// NameLen is the size of the name fields, including NUL padding.
	NameLen = 32

	// HeaderSize is the encoded size of the header.
	HeaderSize = 56

	// AreaSize is the encoded size of one area record.
	AreaSize = 42

	// SearchStride is the alignment at which [Find] looks for the signature.
	SearchStride = 4
)

// Flags describe how an area is meant to be used.
type Flags uint16

const (
	FlagStatic Flags = 1 << iota
	FlagCompressed
	FlagReadOnly
	FlagPreserve
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagStatic, "static"},
	{FlagCompressed, "compressed"},
	{FlagReadOnly, "ro"},
	{FlagPreserve, "preserve"},
}

// String lists the set flags separated by commas.
func (f Flags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, ",")
}

// Map is a decoded region map.
type Map struct {
	// Offset is where the header was found in the image. It is only set by
	// [Locate].
	Offset int

	VersionMajor uint8
	VersionMinor uint8
	Base         uint64
	Size         uint32
	Name         string
	Areas        []Area
}

// Area is one named range of the image.
type Area struct {
	Offset uint32
	Size   uint32
	Name   string
	Flags  Flags
}

// End returns the offset just past the area.
func (a Area) End() uint32 { return a.Offset + a.Size }

// ImageBase returns the image base cut to 32 bits, the width used for all
// offset arithmetic.
func (m *Map) ImageBase() uint32 { return uint32(m.Base) }

// ImageSize returns the size of the image described by the map.
func (m *Map) ImageSize() uint32 { return m.Size }

// Lookup returns the areas whose name is exactly name, in map order.
func (m *Map) Lookup(name string) []Area {
	var out []Area
	for _, a := range m.Areas {
		if a.Name == name {
			out = append(out, a)
		}
	}
	return out
}
