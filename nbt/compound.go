package nbt

// Lookup returns the child named name in a Compound, and whether it was
// present. Called on a non-Compound tag it logs via Diagnostic and
// returns (nil, false).
func (t *Tag) Lookup(name string) (*Tag, bool) {
	if t == nil || t.kind != Compound {
		wrongKind("Lookup", Compound, t.Kind())
		return nil, false
	}
	idx, ok := t.compoundByID[name]
	if !ok {
		return nil, false
	}
	return t.compound[idx].value, true
}

// Set inserts or replaces the child named name in a Compound, retaining
// value and releasing whatever value name previously held. Replacing an
// existing name appends the new entry at the end; the replaced key's
// relative insertion-order position is not preserved - this is the
// defined behavior, matching rs_tag_compound_set's delete-then-push.
// Called on a non-Compound tag it logs via Diagnostic and is a no-op.
func (t *Tag) Set(name string, value *Tag) {
	if t == nil || t.kind != Compound {
		wrongKind("Set", Compound, t.Kind())
		return
	}
	if value == nil {
		diagf("nbt: Set called with nil value")
		return
	}
	t.Remove(name)
	t.compound = append(t.compound, compoundEntry{name: name, value: value})
	t.compoundByID[name] = len(t.compound) - 1
	value.Retain()
}

// Remove deletes and releases the child named name in a Compound, if
// present. Called on a non-Compound tag it logs via Diagnostic and is a
// no-op.
func (t *Tag) Remove(name string) {
	if t == nil || t.kind != Compound {
		wrongKind("Remove", Compound, t.Kind())
		return
	}
	idx, ok := t.compoundByID[name]
	if !ok {
		return
	}
	old := t.compound[idx].value
	t.compound = append(t.compound[:idx], t.compound[idx+1:]...)
	delete(t.compoundByID, name)
	for i := idx; i < len(t.compound); i++ {
		t.compoundByID[t.compound[i].name] = i
	}
	old.Release()
}

// FindChain walks through nested Compounds following names in order,
// returning the final tag or nil at the first missing key or the first
// non-Compound level. FindChain() with no names returns t itself.
func (t *Tag) FindChain(names ...string) *Tag {
	cur := t
	for _, name := range names {
		if cur == nil || cur.kind != Compound {
			return nil
		}
		cur, _ = cur.Lookup(name)
	}
	return cur
}

// CompoundIterator yields a Compound's (name, value) entries in insertion
// order.
type CompoundIterator struct {
	entries []compoundEntry
	pos     int
}

// Entries returns a fresh CompoundIterator over t's entries, in insertion
// order. Called on a non-Compound tag it logs via Diagnostic and returns
// an iterator with no entries.
func (t *Tag) Entries() *CompoundIterator {
	if t == nil || t.kind != Compound {
		wrongKind("Entries", Compound, t.Kind())
		return &CompoundIterator{}
	}
	return &CompoundIterator{entries: t.compound}
}

// Next yields the next (name, value) pair, or ("", nil, false) when
// exhausted.
func (it *CompoundIterator) Next() (string, *Tag, bool) {
	if it.pos >= len(it.entries) {
		return "", nil, false
	}
	e := it.entries[it.pos]
	it.pos++
	return e.name, e.value, true
}
