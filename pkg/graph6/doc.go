// Package graph6 decodes and encodes the graph6 text format.
//
// graph6 packs the upper triangle of an undirected graph's adjacency matrix
// into printable ASCII, six bits per byte. A string consists of a size header
// followed by the body:
//
//	N(n)  = n+63                               for 0 <= n <= 62
//	      = 126, then 3 bytes of 6 bits        for 63 <= n <= 258047
//	      = 126, 126, then 6 bytes of 6 bits   for 258048 <= n <= 68719476735
//	R(x)  = x(0,1) x(0,2) x(1,2) x(0,3) x(1,3) x(2,3) ...
//
// Every byte holds six bits of big-endian data plus 63. The body is padded
// with zero bits to a multiple of six. An optional ">>graph6<<" prefix is
// accepted by [Decode] and never produced by [Encode].
//
// # Canonical Form
//
// [Encode] always emits the shortest size header and zero padding, and
// [Decode] rejects anything else, so the two functions are mutual inverses:
//
//	g, _ := graph6.Decode("Bw")
//	graph6.Encode(g) // "Bw"
//
// # Errors
//
// Malformed input yields a [*DecodeError] carrying the byte offset of the
// problem relative to the original text.
package graph6
