// Package addrbyte defines the AddressedByte value shared by every stage
// downstream of a symbol slicer: a reconstructed byte paired with a
// monotonically increasing position marker into the post-slicer bitstream,
// used only for cross-chain packet correlation.
package addrbyte

// Byte is a value/address pair. Address has no meaning beyond monotonicity
// within a single chain.
type Byte struct {
	Value   byte
	Address uint64
}
