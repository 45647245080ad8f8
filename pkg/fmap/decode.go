package fmap

import (
	"bytes"
	"encoding/binary"

	"github.com/matzehuels/dumpfmap/pkg/errors"
)

// Find returns the offset of the first region map header in data. Only
// offsets that are multiples of [SearchStride], carry the signature, fit a
// whole header and declare [VersionMajor] qualify.
func Find(data []byte) (int, bool) {
	sig := []byte(Signature)
	for i := 0; i+HeaderSize <= len(data); i += SearchStride {
		if !bytes.Equal(data[i:i+len(sig)], sig) {
			continue
		}
		if data[i+len(sig)] == VersionMajor {
			return i, true
		}
	}
	return 0, false
}

// Decode decodes the region map whose header starts at data[0].
//
// The whole area table must be present; the record count is checked against
// the buffer before anything is allocated.
func Decode(data []byte) (*Map, error) {
	if len(data) < HeaderSize {
		return nil, errors.New(errors.ErrCodeTruncated,
			"region map header needs %d bytes, have %d", HeaderSize, len(data))
	}
	if string(data[:len(Signature)]) != Signature {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing %s signature", Signature)
	}

	le := binary.LittleEndian
	m := &Map{
		VersionMajor: data[8],
		VersionMinor: data[9],
		Base:         le.Uint64(data[10:18]),
		Size:         le.Uint32(data[18:22]),
		Name:         cString(data[22 : 22+NameLen]),
	}
	n := int(le.Uint16(data[54:56]))

	if need := HeaderSize + n*AreaSize; len(data) < need {
		return nil, errors.New(errors.ErrCodeTruncated,
			"region map %q declares %d areas (%d bytes), have %d", m.Name, n, need, len(data))
	}

	m.Areas = make([]Area, n)
	for i := range m.Areas {
		rec := data[HeaderSize+i*AreaSize:]
		m.Areas[i] = Area{
			Offset: le.Uint32(rec[0:4]),
			Size:   le.Uint32(rec[4:8]),
			Name:   cString(rec[8 : 8+NameLen]),
			Flags:  Flags(le.Uint16(rec[40:42])),
		}
	}
	return m, nil
}

// Locate finds the region map in a whole image and decodes it.
func Locate(image []byte) (*Map, error) {
	off, ok := Find(image)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no region map found")
	}
	m, err := Decode(image[off:])
	if err != nil {
		return nil, err
	}
	m.Offset = off
	return m, nil
}

// cString returns b up to the first NUL.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
