package rs

// RS is a Reed-Solomon decoder over a Galois field, parameterized by the
// generator's first root and number of roots (== parity symbol count ==
// 2*t, where t is the number of correctable errors per codeword).
type RS struct {
	GF        *GF
	FirstRoot int
	NumRoots  int
}

// New builds an RS decoder. firstRoot/numRoots describe the generator
// polynomial g(x) = Prod_{i=0..numRoots-1} (x + alpha^(firstRoot+i)); gfPower
// and gfPoly parameterize the underlying GF(2^gfPower).
func New(firstRoot, numRoots, gfPower int, gfPoly uint32) *RS {
	return &RS{GF: NewGF(gfPower, gfPoly), FirstRoot: firstRoot, NumRoots: numRoots}
}

// Decode performs in-place error correction on data[:blockSize] (parity
// symbols are the trailing NumRoots bytes of the block). minDistance
// reserves that many correction slots: the decoder requires
// errorCount <= NumRoots/2 - minDistance to accept a correction, so at
// minDistance >= NumRoots/2 it can only detect errors, never correct them
// (used for "must not miscorrect" configurations such as CRC-less IL2P).
//
// Returns the number of corrected symbol errors, or -1 if decoding failed
// (uncorrectable error pattern, or a correction that fails the post-hoc
// syndrome recheck).
func (rs *RS) Decode(data []byte, blockSize int, minDistance int) int {
	gf := rs.GF
	r := rs.NumRoots

	syndromes := make([]int, r)
	for i := 0; i < r; i++ {
		x := gf.Exp(rs.FirstRoot + i)
		s := 0
		for j := 0; j < blockSize-1; j++ {
			s = gf.Mul(s^int(data[j]), x)
		}
		s ^= int(data[blockSize-1])
		syndromes[i] = s
	}

	errorLocator := make([]int, r)
	nextErrorLocator := make([]int, r)
	correctionPoly := make([]int, r+1)
	errorLocations := make([]int, r)
	errorMagnitudes := make([]int, r)

	errorLocator[0] = 1
	correctionPoly[1] = 1
	orderTracker := 0

	for step := 1; step <= r; step++ {
		y := step - 1
		e := syndromes[y]
		for i := 1; i <= orderTracker; i++ {
			x := y - i
			e ^= gf.Mul(errorLocator[i], syndromes[x])
		}
		if e != 0 {
			for i := 0; i <= r/2; i++ {
				nextErrorLocator[i] = errorLocator[i] ^ gf.Mul(e, correctionPoly[i])
			}
			if 2*orderTracker < step {
				eInv := gf.Inv(e)
				for i := 0; i <= r/2; i++ {
					correctionPoly[i] = gf.Mul(errorLocator[i], eInv)
				}
				orderTracker = step - orderTracker
			}
			for i := 0; i <= r/2; i++ {
				errorLocator[i] = nextErrorLocator[i]
			}
		}
		for i := r; i > 0; i-- {
			correctionPoly[i] = correctionPoly[i-1]
		}
		correctionPoly[0] = 0
	}

	errorCount := 0
	for j := 0; j < blockSize; j++ {
		x := 0
		y := j + gf.Order - blockSize
		for i := 1; i <= r/2; i++ {
			if errorLocator[i] != 0 {
				z := (y * i) + gf.Log(errorLocator[i])
				for z > gf.Order-2 {
					z -= gf.Order - 1
				}
				x ^= gf.Exp(z)
			}
		}
		x ^= errorLocator[0]
		if x == 0 {
			errorLocations[errorCount] = j
			errorCount++
			if errorCount >= r {
				break
			}
		}
	}

	if errorCount > r/2-minDistance {
		return -1
	}

	// Forney's algorithm: compute error magnitudes.
	for i := 0; i < errorCount; i++ {
		correctionPoly[i] = syndromes[rs.FirstRoot+i]
		for j := 1; j <= i; j++ {
			correctionPoly[i] ^= gf.Mul(syndromes[rs.FirstRoot+i-j], errorLocator[j])
		}
	}
	for i := 0; i < errorCount; i++ {
		e := blockSize - errorLocations[i] - 1
		z := correctionPoly[0]
		for j := 1; j < errorCount; j++ {
			x := e * j
			for x > gf.Order-2 {
				x -= gf.Order - 1
			}
			x = gf.Order - x - 1
			for x > gf.Order-2 {
				x -= gf.Order - 1
			}
			z ^= gf.Mul(correctionPoly[j], gf.Exp(x))
		}
		z = gf.Mul(z, gf.Exp(e))

		y := errorLocator[1]
		for j := 3; j <= r/2; j += 2 {
			x := e * (j - 1)
			for x > gf.Order-2 {
				x -= gf.Order - 1
			}
			x = gf.Order - x - 1
			for x > gf.Order-2 {
				x -= gf.Order - 1
			}
			y ^= gf.Mul(errorLocator[j], gf.Exp(x))
		}
		yi := gf.Log(y)
		yi = gf.Order - yi - 1
		if yi == gf.Order-1 {
			yi = 0
		}
		yv := gf.Exp(yi)
		errorMagnitudes[i] = gf.Mul(yv, z)
		data[errorLocations[i]] ^= byte(errorMagnitudes[i])
	}

	// Re-check syndromes on the corrected data; any non-zero means the
	// "correction" was bogus.
	for i := 0; i < r; i++ {
		x := gf.Exp(rs.FirstRoot + i)
		s := 0
		for j := 0; j < blockSize-1; j++ {
			s = gf.Mul(s^int(data[j]), x)
		}
		s ^= int(data[blockSize-1])
		if s != 0 {
			return -1
		}
	}
	return errorCount
}
