package vfs

import "math/bits"

// Bitmap is a view over an on-disk bitmap block. Bit i lives in byte i/8 at
// position i%8, 1 means allocated.
type Bitmap []byte

func NewBitmap(length uint64) Bitmap {
	return make(Bitmap, NeededMemoryForBitmap(length))
}

func NeededMemoryForBitmap(length uint64) uint64 {
	return (length + 7) / 8
}

// FindFreeBit returns the lowest clear bit strictly below maxBits. The scan
// skips full bytes and gives up as soon as it reaches maxBits.
func (b Bitmap) FindFreeBit(maxBits uint64) (uint64, bool) {
	byteCount := NeededMemoryForBitmap(maxBits)
	if byteCount > uint64(len(b)) {
		byteCount = uint64(len(b))
	}

	for byteIdx := uint64(0); byteIdx < byteCount; byteIdx++ {
		if b[byteIdx] == 0xFF {
			continue
		}

		for bitIdx := uint64(0); bitIdx < 8; bitIdx++ {
			position := byteIdx*8 + bitIdx
			if position >= maxBits {
				return 0, false
			}

			if b[byteIdx]&(1<<bitIdx) == 0 {
				return position, true
			}
		}
	}

	return 0, false
}

// SetBit marks position as allocated. Callers check position against their
// own limit first.
func (b Bitmap) SetBit(position uint64) {
	b[position/8] |= 1 << (position % 8)
}

func (b Bitmap) GetBit(position uint64) (bool, error) {
	posInSlice := position / 8

	if posInSlice >= uint64(len(b)) {
		return false, OutOfRange{VolumePtr(posInSlice), VolumePtr(len(b) - 1)}
	}

	return b[posInSlice]&(1<<(position%8)) != 0, nil
}

// Count returns the number of allocated bits.
func (b Bitmap) Count() uint64 {
	var n uint64
	for _, v := range b {
		n += uint64(bits.OnesCount8(v))
	}
	return n
}

func (b Bitmap) Len() uint64 {
	return uint64(len(b)) * 8
}
