package notebook

// Slice returns a copy of nb whose cells are nb.Cells[start:end] with Python
// slice semantics: negative bounds count from the end, out-of-range bounds
// clamp, and a nil bound means "from the beginning" or "through the last cell".
// The input notebook is never modified.
func Slice(nb *Notebook, start, end *int) *Notebook {
	c := nb.Clone()
	if c == nil {
		return nil
	}
	lo, hi := Bounds(len(c.Cells), start, end)
	c.Cells = c.Cells[lo:hi:hi]
	return c
}

// Bounds resolves optional slice bounds against a sequence of length n.
// The result always satisfies 0 <= lo <= hi <= n.
func Bounds(n int, start, end *int) (lo, hi int) {
	lo, hi = 0, n
	if start != nil {
		lo = clampIndex(*start, n)
	}
	if end != nil {
		hi = clampIndex(*end, n)
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return min(max(i, 0), n)
}
