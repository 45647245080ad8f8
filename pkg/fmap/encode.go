package fmap

import (
	"encoding/binary"
	"math"

	"github.com/matzehuels/dumpfmap/pkg/errors"
)

// MarshalBinary encodes the map in its on-flash form. A zero version is
// written as [VersionMajor].[VersionMinor].
func (m *Map) MarshalBinary() ([]byte, error) {
	if len(m.Areas) > math.MaxUint16 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "too many areas: %d", len(m.Areas))
	}
	if len(m.Name) > NameLen {
		return nil, errors.New(errors.ErrCodeInvalidInput, "map name %q longer than %d bytes", m.Name, NameLen)
	}

	major, minor := m.VersionMajor, m.VersionMinor
	if major == 0 {
		major, minor = VersionMajor, VersionMinor
	}

	buf := make([]byte, HeaderSize+len(m.Areas)*AreaSize)
	le := binary.LittleEndian
	copy(buf[0:8], Signature)
	buf[8] = major
	buf[9] = minor
	le.PutUint64(buf[10:18], m.Base)
	le.PutUint32(buf[18:22], m.Size)
	copy(buf[22:22+NameLen], m.Name)
	le.PutUint16(buf[54:56], uint16(len(m.Areas)))

	for i, a := range m.Areas {
		if len(a.Name) > NameLen {
			return nil, errors.New(errors.ErrCodeInvalidInput, "area name %q longer than %d bytes", a.Name, NameLen)
		}
		rec := buf[HeaderSize+i*AreaSize:]
		le.PutUint32(rec[0:4], a.Offset)
		le.PutUint32(rec[4:8], a.Size)
		copy(rec[8:8+NameLen], a.Name)
		le.PutUint16(rec[40:42], uint16(a.Flags))
	}
	return buf, nil
}
