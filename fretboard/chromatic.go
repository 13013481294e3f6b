package fretboard

// Chromatic is the twelve-tone sequence starting at the current root.
type Chromatic [12]Note

// CanonicalChromatic starts at C.
func CanonicalChromatic() Chromatic {
	var c Chromatic
	for i := range c {
		c[i] = Note(i)
	}
	return c
}

// Root is the note at index 0.
func (c Chromatic) Root() Note { return c[0] }

// Index returns the position of n, or -1.
func (c Chromatic) Index(n Note) int {
	for i, v := range c {
		if v == n {
			return i
		}
	}
	return -1
}

// Rotate re-roots the sequence at root, searching the current ordering.
// If root is not present the sequence is returned unchanged with ok false.
func (c Chromatic) Rotate(root Note) (rotated Chromatic, ok bool) {
	r := c.Index(root)
	if r < 0 {
		return c, false
	}
	n := copy(rotated[:], c[r:])
	copy(rotated[n:], c[:r])
	return rotated, true
}

// Names returns the sequence as strings.
func (c Chromatic) Names() []string {
	out := make([]string, len(c))
	for i, n := range c {
		out[i] = n.String()
	}
	return out
}
