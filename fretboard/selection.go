package fretboard

// Selection holds the engaged fret of each string, at most one per string.
// The zero value is empty and ready to use.
type Selection struct {
	frets [NumStrings]int // fret+1, 0 = not engaged
}

// Toggle engages c, replacing any other fret on the same string.
// Toggling the engaged fret again clears the string.
// The string index must already be checked against the grid.
func (s *Selection) Toggle(c Coord) {
	if s.frets[c.Str] == c.Fret+1 {
		s.frets[c.Str] = 0
		return
	}
	s.frets[c.Str] = c.Fret + 1
}

// Fret returns the engaged fret on string str.
func (s Selection) Fret(str int) (int, bool) {
	if str < 0 || str >= NumStrings || s.frets[str] == 0 {
		return 0, false
	}
	return s.frets[str] - 1, true
}

func (s Selection) Has(c Coord) bool {
	f, ok := s.Fret(c.Str)
	return ok && f == c.Fret
}

func (s Selection) Len() int {
	n := 0
	for _, f := range s.frets {
		if f != 0 {
			n++
		}
	}
	return n
}

func (s Selection) Empty() bool { return s.Len() == 0 }

// Clear releases all strings.
func (s *Selection) Clear() { *s = Selection{} }

// Coords lists engaged positions ordered by string.
func (s Selection) Coords() []Coord {
	var out []Coord
	for str := range s.frets {
		if f, ok := s.Fret(str); ok {
			out = append(out, Coord{Str: str, Fret: f})
		}
	}
	return out
}

// Resolve returns one pitch per engaged string.
func (s Selection) Resolve(g *Grid) []Pitch {
	var out []Pitch
	for _, c := range s.Coords() {
		out = append(out, g.PitchAbsAt(c.Str, c.Fret))
	}
	return out
}
