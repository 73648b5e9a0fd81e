package texture

import "math"

// Half is an IEEE 754 binary16 value, the texel format of RGBA16F uploads.
type Half uint16

// HalfFrom rounds f to the nearest binary16, saturating to infinity and
// flushing values below the smallest subnormal to signed zero.
func HalfFrom(f float32) Half {
	b := math.Float32bits(f)
	sign := Half(b>>16) & 0x8000
	exp := int(b>>23) & 0xff
	mant := b & 0x7fffff

	if exp == 0xff {
		if mant == 0 {
			return sign | 0x7c00
		}
		// Keep NaN a NaN even when the top payload bits are clear.
		return sign | 0x7c00 | Half(max(mant>>13, 1))
	}
	if exp == 0 && mant == 0 {
		return sign
	}

	e := exp - 127 + 15
	switch {
	case e >= 0x1f:
		return sign | 0x7c00
	case e <= 0:
		if e < -10 {
			return sign
		}
		m := (mant | 0x800000) >> uint(1-e)
		return sign | Half((m+0x1000)>>13)
	}
	m := mant + 0x1000
	if m&0x800000 != 0 {
		m = 0
		e++
		if e >= 0x1f {
			return sign | 0x7c00
		}
	}
	return sign | Half(e<<10) | Half(m>>13)
}

// Float32 widens h exactly.
func (h Half) Float32() float32 {
	sign := uint32(h>>15) << 31
	exp := int(h>>10) & 0x1f
	mant := uint32(h & 0x3ff)

	switch {
	case exp == 0x1f:
		b := sign | 0x7f800000 | mant<<13
		if mant != 0 {
			b |= 1
		}
		return math.Float32frombits(b)
	case exp != 0:
		return math.Float32frombits(sign | uint32(exp-15+127)<<23 | mant<<13)
	case mant == 0:
		return math.Float32frombits(sign)
	}
	// Subnormal: normalize the mantissa.
	e := -14
	for mant&0x400 == 0 {
		mant <<= 1
		e--
	}
	return math.Float32frombits(sign | uint32(e+127)<<23 | (mant&0x3ff)<<13)
}

// RGBA16F packs the map as four halves per texel with the given alpha.
// dst is reused when large enough.
func (m *Vec3Map) RGBA16F(dst []Half, alpha float32) []Half {
	dst = grow(dst, 4*len(m.Texels))
	a := HalfFrom(alpha)
	for i, t := range m.Texels {
		dst[4*i] = HalfFrom(t[0])
		dst[4*i+1] = HalfFrom(t[1])
		dst[4*i+2] = HalfFrom(t[2])
		dst[4*i+3] = a
	}
	return dst
}

// R16F packs the map as one half per texel.
func (m *ScalarMap) R16F(dst []Half) []Half {
	dst = grow(dst, len(m.Texels))
	for i, t := range m.Texels {
		dst[i] = HalfFrom(t)
	}
	return dst
}

func grow(dst []Half, n int) []Half {
	if cap(dst) < n {
		return make([]Half, n)
	}
	return dst[:n]
}
