// Package buffer reads and writes the fields of the RuneScape game protocol.
//
// A Reader or Writer is a cursor over a byte sequence that is in one of two
// access modes. In byte access it handles fixed width scalars in big, little,
// middle and inverse middle order, the add/subtract/negate byte
// transformations, the smart family of variable-length integers, NUL
// terminated strings and byte blocks. In bit access it packs and unpacks
// fields of 1 to 32 bits, most significant bit first, across byte boundaries.
//
// Neither type is safe for concurrent use.
package buffer
