package nbt

// Find performs a depth-first search across Lists and Compounds rooted at
// t, returning the first Compound entry whose name equals name. Leaves
// (scalars, ByteArray, String) have no children and contribute nothing to
// the search; t itself is not checked against name unless t is a
// Compound containing it. Grounded in rs_tag_find (tag.c), which searches
// a Compound's own entries before recursing into its children.
func Find(t *Tag, name string) *Tag {
	if t == nil {
		return nil
	}
	switch t.kind {
	case List:
		it := t.Iterator()
		for child, ok := it.Next(); ok; child, ok = it.Next() {
			if found := Find(child, name); found != nil {
				return found
			}
		}
		return nil
	case Compound:
		if v, ok := t.Lookup(name); ok {
			return v
		}
		it := t.Entries()
		for {
			_, child, ok := it.Next()
			if !ok {
				break
			}
			if found := Find(child, name); found != nil {
				return found
			}
		}
		return nil
	default:
		return nil
	}
}
