package board

import "sort"

// Document is the full ordered collection of elements at a point in time.
// Order is insertion order; render order is determined by Z at draw time.
// The Document is the unit of history versioning, so it must deep-copy
// cleanly via Clone.
type Document []Element

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for i, e := range d {
		out[i] = e.Clone()
	}
	return out
}

// Get returns a copy of the element with the given id.
func (d Document) Get(id ID) (Element, bool) {
	for _, e := range d {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return Element{}, false
}

// IndexOf returns the position of id in document order, or -1.
func (d Document) IndexOf(id ID) int {
	for i, e := range d {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Has reports whether the document contains id.
func (d Document) Has(id ID) bool { return d.IndexOf(id) >= 0 }

// IDs returns every element id in document order.
func (d Document) IDs() []ID {
	out := make([]ID, len(d))
	for i, e := range d {
		out[i] = e.ID
	}
	return out
}

// MaxZ returns the largest z value in the document, or 0 when empty.
func (d Document) MaxZ() float64 {
	if len(d) == 0 {
		return 0
	}
	max := d[0].Z
	for _, e := range d[1:] {
		if e.Z > max {
			max = e.Z
		}
	}
	return max
}

// MinZ returns the smallest z value in the document, or 0 when empty.
func (d Document) MinZ() float64 {
	if len(d) == 0 {
		return 0
	}
	min := d[0].Z
	for _, e := range d[1:] {
		if e.Z < min {
			min = e.Z
		}
	}
	return min
}

// RenderOrder returns copies of the elements sorted back-to-front:
// ascending z, ties broken by document (insertion) order.
func (d Document) RenderOrder() []Element {
	out := make([]Element, len(d))
	for i, e := range d {
		out[i] = e.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}
