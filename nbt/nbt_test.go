package nbt

import (
	"testing"

	"github.com/blockvault/redstone/internal/xcompress"
	"github.com/google/go-cmp/cmp"
)

// snapshot is a comparable, cmp-friendly projection of a Tag tree used to
// assert structural equality across a write/parse round trip without
// exposing refcount/freed bookkeeping to cmp.
type snapshot struct {
	Kind  Kind
	Int   int64
	Float float64
	Bytes []byte
	Str   string
	List  []snapshot
	Comp  map[string]snapshot
	Order []string
}

func snap(t *Tag) snapshot {
	s := snapshot{Kind: t.Kind()}
	switch t.Kind() {
	case Byte, Short, Int, Long:
		s.Int = t.Int64()
	case Float, Double:
		s.Float = t.Float64()
	case ByteArray:
		s.Bytes = append([]byte(nil), t.Bytes()...)
	case String:
		s.Str = t.Str()
	case List:
		it := t.Iterator()
		for child, ok := it.Next(); ok; child, ok = it.Next() {
			s.List = append(s.List, snap(child))
		}
	case Compound:
		s.Comp = make(map[string]snapshot)
		it := t.Entries()
		for {
			name, child, ok := it.Next()
			if !ok {
				break
			}
			s.Comp[name] = snap(child)
			s.Order = append(s.Order, name)
		}
	}
	return s
}

func TestMinimalDocRoundTrip(t *testing.T) {
	root := NewCompound(Entry{Name: "byte", Value: NewByte(0)})
	doc := NewDocument("TestNBT", root)
	defer doc.Free()

	raw, err := Write(doc)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer parsed.Free()

	if parsed.RootName != "TestNBT" {
		t.Fatalf("root name = %q", parsed.RootName)
	}
	got := parsed.Root.FindChain("byte")
	if got == nil || got.Int64() != 0 {
		t.Fatalf("find chain byte = %v", got)
	}
}

func TestGamemodeEdit(t *testing.T) {
	root := NewCompound(Entry{Name: "GameType", Value: NewInt(0)})
	doc := NewDocument("", root)

	doc.Root.FindChain("GameType").SetInt64(2)

	raw, err := Write(doc)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	doc.Free()

	reparsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer reparsed.Free()

	if got := Find(reparsed.Root, "GameType").Int64(); got != 2 {
		t.Fatalf("GameType = %d, want 2", got)
	}
}

func TestDeepFind(t *testing.T) {
	list := NewList(NewInt(1), NewInt(2), NewInt(3))
	b := NewCompound(Entry{Name: "b", Value: list})
	a := NewCompound(Entry{Name: "a", Value: b})

	found := Find(a, "b")
	if found == nil || found.Kind() != List {
		t.Fatalf("Find(a, b) = %v", found)
	}
	if found.Len() != 3 {
		t.Fatalf("len = %d", found.Len())
	}
	if found.Get(1).Int64() != 2 {
		t.Fatalf("get(1) = %d", found.Get(1).Int64())
	}
	a.Release()
}

func TestCompoundOrderingAndReplace(t *testing.T) {
	c := NewCompound()
	c.Set("a", NewInt(1))
	c.Set("b", NewInt(2))
	c.Set("c", NewInt(3))
	c.Remove("b")
	c.Set("a", NewInt(100)) // replace moves "a" to the end

	var order []string
	it := c.Entries()
	for {
		name, _, ok := it.Next()
		if !ok {
			break
		}
		order = append(order, name)
	}
	want := []string{"c", "a"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("order mismatch:\n%s", diff)
	}
	if v, _ := c.Lookup("a"); v.Int64() != 100 {
		t.Fatalf("a = %d, want 100", v.Int64())
	}
	c.Release()
}

func TestListKindMismatch(t *testing.T) {
	var diagnostics []string
	old := Diagnostic
	Diagnostic = func(format string, args ...any) { diagnostics = append(diagnostics, format) }
	defer func() { Diagnostic = old }()

	list := NewList(NewInt(1))
	list.Insert(0, NewString("nope"))
	if list.Len() != 1 {
		t.Fatalf("mismatched insert should be a no-op, len = %d", list.Len())
	}
	if len(diagnostics) == 0 {
		t.Fatalf("expected a diagnostic for the kind mismatch")
	}
	list.Release()
}

func TestEmptyListRoundTrip(t *testing.T) {
	root := NewCompound(Entry{Name: "empty", Value: NewList()})
	doc := NewDocument("", root)

	raw, err := Write(doc)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	doc.Free()

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer parsed.Free()

	got := parsed.Root.FindChain("empty")
	if got == nil || got.Kind() != List || got.Len() != 0 {
		t.Fatalf("empty list round trip = %v", got)
	}
}

func TestEmptyKeyAndByteArrayRoundTrip(t *testing.T) {
	root := NewCompound(
		Entry{Name: "", Value: NewString("anonymous")},
		Entry{Name: "empty_bytes", Value: NewByteArray(nil)},
	)
	doc := NewDocument("root", root)

	raw, err := Write(doc)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	doc.Free()

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer parsed.Free()

	if got := parsed.Root.FindChain(""); got == nil || got.Str() != "anonymous" {
		t.Fatalf("empty key round trip = %v", got)
	}
	if got := parsed.Root.FindChain("empty_bytes"); got == nil || got.Len() != 0 {
		t.Fatalf("empty byte array round trip = %v", got)
	}
}

func TestGzipAutoDetect(t *testing.T) {
	root := NewCompound(Entry{Name: "x", Value: NewInt(7)})
	doc := NewDocument("g", root)

	raw, err := Write(doc)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	doc.Free()

	framed, err := xcompress.Deflate(raw, xcompress.Gzip)
	if err != nil {
		t.Fatalf("Deflate: %v", err)
	}

	parsed, err := Parse(framed)
	if err != nil {
		t.Fatalf("Parse gzip-framed: %v", err)
	}
	defer parsed.Free()
	if got := parsed.Root.FindChain("x").Int64(); got != 7 {
		t.Fatalf("x = %d, want 7", got)
	}
}

func TestReleaseBalancesRetain(t *testing.T) {
	leaf := NewInt(5)
	list := NewList()
	list.Insert(0, leaf) // retains leaf -> refcount 1
	leaf.Retain()        // caller keeps its own reference -> refcount 2
	list.Release()       // frees the list, releases leaf once -> refcount 1
	if leaf.freed {
		t.Fatalf("leaf should still be alive: caller holds a reference")
	}
	leaf.Release()
	if !leaf.freed {
		t.Fatalf("leaf should be freed after balancing release")
	}
}

func TestFullTreeRoundTrip(t *testing.T) {
	inner := NewCompound(
		Entry{Name: "name", Value: NewString("steve")},
		Entry{Name: "health", Value: NewFloat(20)},
		Entry{Name: "pos", Value: NewList(NewDouble(1), NewDouble(64), NewDouble(-3))},
	)
	root := NewCompound(
		Entry{Name: "Player", Value: inner},
		Entry{Name: "Data", Value: NewByteArray([]byte{1, 2, 3, 4, 5})},
	)
	doc := NewDocument("level", root)

	before := snap(doc.Root)

	raw, err := Write(doc)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	doc.Free()

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer parsed.Free()

	after := snap(parsed.Root)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("round trip mismatch:\n%s", diff)
	}
	if parsed.RootName != "level" {
		t.Fatalf("root name = %q", parsed.RootName)
	}
}

func TestMalformedNegativeLength(t *testing.T) {
	// A hand-crafted Compound containing a String tag whose length field
	// is negative when read as int16 is not expressible (u16 is always
	// nonnegative); exercise the ByteArray negative-length path instead,
	// since its length field is a signed-looking i32 that can go negative.
	var buf []byte
	buf = append(buf, wireCompound, 0, 0) // unnamed root compound
	buf = append(buf, wireByteArray, 0, 1, 'x')
	buf = append(buf, 0xFF, 0xFF, 0xFF, 0xFF) // length = -1
	buf = append(buf, wireEnd)

	_, err := Parse(buf)
	if err == nil {
		t.Fatalf("expected an error for negative byte array length")
	}
}
