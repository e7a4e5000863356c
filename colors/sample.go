package colors

import (
	"fmt"
	"image/color"
)

// Key identifies a color by its R, G and B channels. Alpha is not part of the
// identity.
type Key uint32

// KeyOf derives the identity key of c.
func KeyOf(c color.NRGBA) Key {
	return Key(c.R)<<16 | Key(c.G)<<8 | Key(c.B)
}

// String returns the key as six uppercase hex digits, e.g. "FF0000".
func (k Key) String() string {
	return fmt.Sprintf("%06X", uint32(k))
}

// Sample is one distinct color observed in an image together with the number
// of pixels it was seen in. RGBA carries the most frequent alpha seen for the
// key, the lowest one on ties.
type Sample struct {
	RGBA  color.NRGBA
	Key   Key
	Count int
}

