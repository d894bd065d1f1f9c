package bite

import "encoding/binary"

// synth builds little-endian test buffers.
type synth struct {
	b []byte
}

func (s *synth) u8(v uint8)   { s.b = append(s.b, v) }
func (s *synth) u16(v uint16) { s.b = binary.LittleEndian.AppendUint16(s.b, v) }
func (s *synth) u32(v uint32) { s.b = binary.LittleEndian.AppendUint32(s.b, v) }
func (s *synth) u64(v uint64) { s.b = binary.LittleEndian.AppendUint64(s.b, v) }
func (s *synth) i32(v int32)  { s.u32(uint32(v)) }

func (s *synth) raw(data []byte) { s.b = append(s.b, data...) }

func (s *synth) str(v string, n int) {
	field := make([]byte, n)
	copy(field, v)
	s.raw(field)
}

func (s *synth) pad(n int) { s.raw(make([]byte, n)) }

// fillPattern returns n bytes of a deterministic per-seed pattern so each
// mip surface is distinguishable.
func fillPattern(n int, seed byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i)*31 + seed
	}
	return out
}
