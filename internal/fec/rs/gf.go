// Package rs implements GF(2^m) arithmetic and Reed-Solomon block decoding
// (syndrome calculation, Berlekamp-Massey, Chien search, Forney's
// algorithm) as used by the IL2P header and per-block forward error
// correction.
package rs

// GF is a Galois field GF(2^power) built from a primitive polynomial, with
// log/antilog tables generated by an LFSR walk.
type GF struct {
	Power   int
	GenPoly uint32
	Order   int // 2^power

	exp []int // exp[i] = alpha^i, i in [0, order-2]
	log []int // log[alpha^i] = i, indexed by field element
	inv []int // inv[x] = multiplicative inverse of x
}

// NewGF builds GF(2^power) using genpoly as the primitive polynomial.
func NewGF(power int, genpoly uint32) *GF {
	order := 1 << power
	gf := &GF{Power: power, GenPoly: genpoly, Order: order}
	gf.exp = make([]int, order-1)
	gf.log = make([]int, order)
	gf.inv = make([]int, order)

	lfsr := 1
	for i := order - 2; i >= 0; i-- {
		feedback := lfsr&1 != 0
		lfsr >>= 1
		if feedback {
			lfsr ^= int(genpoly >> 1)
		}
		gf.exp[i] = lfsr
		gf.log[lfsr] = i
	}
	for i := 1; i < order; i++ {
		j := 1
		for gf.Mul(i, j) != 1 {
			j++
		}
		gf.inv[i] = j
	}
	return gf
}

// Mul multiplies two field elements.
func (gf *GF) Mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	result := gf.log[a] + gf.log[b]
	for result > gf.Order-2 {
		result -= gf.Order - 1
	}
	return gf.exp[result]
}

// Exp returns alpha^i, reducing i modulo Order-1 first (i may be negative).
func (gf *GF) Exp(i int) int {
	m := gf.Order - 1
	i %= m
	if i < 0 {
		i += m
	}
	return gf.exp[i]
}

// Log returns the discrete log of a non-zero field element.
func (gf *GF) Log(a int) int {
	return gf.log[a]
}

// Inv returns the multiplicative inverse of a non-zero field element.
func (gf *GF) Inv(a int) int {
	return gf.inv[a]
}
