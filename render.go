package isoscene

import "github.com/hajimehoshi/ebiten/v2"

// drawItem is one culled entity queued for drawing, with its sort key
// precomputed so the comparator stays allocation and interface-call free.
type drawItem struct {
	r          Renderable
	z          int
	depthInt   int
	renderType RenderType
	rank       int
	depth      float64
	order      int // insertion order, keeps the sort stable
}

func newDrawItem(r Renderable, order int) drawItem {
	d := r.IsoDepth()
	return drawItem{
		r:          r,
		z:          int(r.Pos().Z),
		depthInt:   int(d),
		renderType: r.RenderType(),
		rank:       r.Rank(),
		depth:      d,
		order:      order,
	}
}

// collect culls and queues ground, objects and characters, in that order.
// Entities further than twice the viewport width from the origin are skipped.
func (s *Scene) collect(width int, ground, objects []*Tile, chars []*Character) (culled int) {
	s.items = s.items[:0]
	limit := 2 * float64(width)
	order := 0
	add := func(r Renderable) {
		if s.proj.Distance(r.Pos()) >= limit {
			culled++
			return
		}
		s.items = append(s.items, newDrawItem(r, order))
		order++
	}
	for _, t := range ground {
		add(t)
	}
	for _, t := range objects {
		add(t)
	}
	for _, c := range chars {
		add(c)
	}
	return culled
}

// --- Merge sort ---

// itemLessOrEqual returns true if a should draw before or at the same
// position as b: elevation, integer depth bucket, render type, rank, exact
// depth, then insertion order.
func itemLessOrEqual(a, b *drawItem) bool {
	if a.z != b.z {
		return a.z < b.z
	}
	if a.depthInt != b.depthInt {
		return a.depthInt < b.depthInt
	}
	if a.renderType != b.renderType {
		return a.renderType < b.renderType
	}
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.order <= b.order
}

// mergeSort sorts s.items in-place using s.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (s *Scene) mergeSort() {
	n := len(s.items)
	if n <= 1 {
		return
	}
	if cap(s.sortBuf) < n {
		s.sortBuf = make([]drawItem, n)
	}
	s.sortBuf = s.sortBuf[:n]

	a := s.items
	b := s.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(s.items, s.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []drawItem, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if itemLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// submit draws the sorted items onto target.
func (s *Scene) submit(target *ebiten.Image) {
	for i := range s.items {
		s.items[i].r.Draw(target, s.proj)
	}
}

// countDepthBuckets reports how many distinct (z, depth bucket) groups the
// sorted items span. Debug stat only.
func countDepthBuckets(items []drawItem) int {
	if len(items) == 0 {
		return 0
	}
	count := 1
	pz, pd := items[0].z, items[0].depthInt
	for i := 1; i < len(items); i++ {
		if items[i].z != pz || items[i].depthInt != pd {
			count++
			pz, pd = items[i].z, items[i].depthInt
		}
	}
	return count
}
