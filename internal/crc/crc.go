// Package crc implements the CRC-CCITT frame-check-sequence used as the
// trailing two bytes of an AX.25 frame.
package crc

// Poly is the reflected form (0x1021 normal) of the CRC-CCITT polynomial.
const Poly = 0x8408

const (
	initial = 0xFFFF
	finalXOR = 0xFFFF
)

// compute runs the bitwise LSB-first CRC-CCITT over data.
func compute(data []byte) uint16 {
	crc := uint16(initial)
	for _, b := range data {
		for i := 0; i < 8; i++ {
			if (crc&1 != 0) != (b&1 != 0) {
				crc = (crc >> 1) ^ Poly
			} else {
				crc >>= 1
			}
			b >>= 1
		}
	}
	return crc ^ finalXOR
}

// Check validates the trailing two little-endian CRC bytes of packet
// against the CRC-CCITT of everything preceding them. Returns the carried
// CRC, the calculated CRC, and whether they match.
func Check(packet []byte) (carried, calculated uint16, valid bool) {
	if len(packet) < 2 {
		return 0, 0, false
	}
	carried = uint16(packet[len(packet)-2]) | uint16(packet[len(packet)-1])<<8
	calculated = compute(packet[:len(packet)-2])
	return carried, calculated, carried == calculated
}

// Append computes the CRC-CCITT of data and returns data with the two
// little-endian CRC bytes appended.
func Append(data []byte) []byte {
	c := compute(data)
	out := make([]byte, len(data)+2)
	copy(out, data)
	out[len(data)] = byte(c & 0xFF)
	out[len(data)+1] = byte(c >> 8)
	return out
}
