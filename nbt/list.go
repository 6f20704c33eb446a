package nbt

// ElementKind reports a List's fixed element kind. End means the list is
// empty and has never had its kind fixed by SetElementKind or an Insert.
// Called on a non-List tag it logs via Diagnostic and returns End.
func (t *Tag) ElementKind() Kind {
	if t == nil || t.kind != List {
		wrongKind("ElementKind", List, t.Kind())
		return End
	}
	return t.elemKind
}

// SetElementKind fixes a List's element kind. It is a contract violation
// (logged, no-op) to call this on a non-empty list, or on a non-List tag -
// a List's element kind is fixed once its first element is inserted.
func (t *Tag) SetElementKind(k Kind) {
	if t == nil || t.kind != List {
		wrongKind("SetElementKind", List, t.Kind())
		return
	}
	if len(t.list) != 0 {
		diagf("nbt: SetElementKind called on non-empty list")
		return
	}
	t.elemKind = k
}

// Get returns a borrowed reference to the i-th child of a List, or nil if
// i is out of range. Called on a non-List tag it logs via Diagnostic and
// returns nil.
func (t *Tag) Get(i int) *Tag {
	if t == nil || t.kind != List {
		wrongKind("Get", List, t.Kind())
		return nil
	}
	if i < 0 || i >= len(t.list) {
		return nil
	}
	return t.list[i]
}

// Insert parents child into a List at position i, retaining it. i is
// clamped to [0, Len()], appending if i is beyond the current length - an
// empty list simply parents the child rather than underflowing, unlike the
// original C. The list's element kind is taken from child's kind if this
// is the first insert; a mismatched child kind on a later insert is a
// contract violation (logged, no-op). Called on a non-List tag it logs via
// Diagnostic and is a no-op.
func (t *Tag) Insert(i int, child *Tag) {
	if t == nil || t.kind != List {
		wrongKind("Insert", List, t.Kind())
		return
	}
	if child == nil {
		diagf("nbt: Insert called with nil child")
		return
	}
	if len(t.list) == 0 && t.elemKind == End {
		t.elemKind = child.Kind()
	}
	if child.Kind() != t.elemKind {
		diagf("nbt: Insert child kind %s does not match list element kind %s", child.Kind(), t.elemKind)
		return
	}

	if i < 0 {
		i = 0
	}
	if i > len(t.list) {
		i = len(t.list)
	}

	t.list = append(t.list, nil)
	copy(t.list[i+1:], t.list[i:])
	t.list[i] = child
	child.Retain()
}

// Delete removes and releases the i-th child of a List. Out-of-range i is
// a no-op. Called on a non-List tag it logs via Diagnostic and is a no-op.
func (t *Tag) Delete(i int) {
	if t == nil || t.kind != List {
		wrongKind("Delete", List, t.Kind())
		return
	}
	if i < 0 || i >= len(t.list) {
		return
	}
	child := t.list[i]
	t.list = append(t.list[:i], t.list[i+1:]...)
	child.Release()
}

// Reverse reverses a List in place. Called on a non-List tag it logs via
// Diagnostic and is a no-op.
func (t *Tag) Reverse() {
	if t == nil || t.kind != List {
		wrongKind("Reverse", List, t.Kind())
		return
	}
	for i, j := 0, len(t.list)-1; i < j; i, j = i+1, j-1 {
		t.list[i], t.list[j] = t.list[j], t.list[i]
	}
}

// ListIterator yields a List's children by shared reference, in order.
type ListIterator struct {
	items []*Tag
	pos   int
}

// Iterator returns a fresh ListIterator over t's children. Iteration order
// is stable between non-mutating calls. Called on a non-List tag it logs
// via Diagnostic and returns an iterator with no items.
func (t *Tag) Iterator() *ListIterator {
	if t == nil || t.kind != List {
		wrongKind("Iterator", List, t.Kind())
		return &ListIterator{}
	}
	return &ListIterator{items: t.list}
}

// Next yields the next child, or (nil, false) when exhausted.
func (it *ListIterator) Next() (*Tag, bool) {
	if it.pos >= len(it.items) {
		return nil, false
	}
	v := it.items[it.pos]
	it.pos++
	return v, true
}
