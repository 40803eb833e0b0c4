package lr

import "math/bits"

type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) set(i int) {
	b[i/64] |= 1 << (uint(i) % 64)
}

func (b bitset) has(i int) bool {
	return b[i/64]&(1<<(uint(i)%64)) != 0
}

// or merges other into b and reports whether b changed.
func (b bitset) or(other bitset) bool {
	changed := false
	for i := range b {
		n := b[i] | other[i]
		if n != b[i] {
			b[i] = n
			changed = true
		}
	}
	return changed
}

func (b bitset) clone() bitset {
	return append(bitset(nil), b...)
}

// each calls fn for every set bit below limit in ascending order.
func (b bitset) each(limit int, fn func(int)) {
	for w, word := range b {
		for word != 0 {
			i := w*64 + bits.TrailingZeros64(word)
			if i >= limit {
				return
			}
			fn(i)
			word &= word - 1
		}
	}
}
