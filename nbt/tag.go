// Package nbt implements the tagged tree data model (component B) and the
// streaming codec (component C) for Named Binary Tag documents, grounded
// in the original libredstone tag.c and the wire grammar it serializes.
//
// A Tag owns its children through a reference count rather than Go's
// garbage collector: new tags start "floating" (refcount 0), and parenting
// a tag into a List or Compound retains it. This isn't needed for memory
// safety in Go, but a balanced retain/release trace is itself part of the
// contract this package honors, and Release drives deterministic recursive
// teardown the way the original's rs_tag_unref does.
//
// A Tag, like a Document or a Region, is owned by exactly one logical
// goroutine at a time; nothing here is safe for concurrent mutation.
package nbt

// Tag is a tagged value with exactly one of the kinds in Kind. The zero
// value is not a valid Tag; use one of the New* constructors.
type Tag struct {
	kind     Kind
	refcount uint32
	freed    bool

	i64 int64   // Byte, Short, Int, Long
	f64 float64 // Float, Double

	bytes []byte // ByteArray
	str   string // String

	elemKind Kind   // List
	list     []*Tag // List

	compound     []compoundEntry // Compound, insertion order
	compoundByID map[string]int  // name -> index into compound, kept in sync
}

type compoundEntry struct {
	name  string
	value *Tag
}

// NewByte constructs a floating Byte tag.
func NewByte(v int8) *Tag { return &Tag{kind: Byte, i64: int64(v)} }

// NewShort constructs a floating Short tag.
func NewShort(v int16) *Tag { return &Tag{kind: Short, i64: int64(v)} }

// NewInt constructs a floating Int tag.
func NewInt(v int32) *Tag { return &Tag{kind: Int, i64: int64(v)} }

// NewLong constructs a floating Long tag.
func NewLong(v int64) *Tag { return &Tag{kind: Long, i64: v} }

// NewFloat constructs a floating Float tag.
func NewFloat(v float32) *Tag { return &Tag{kind: Float, f64: float64(v)} }

// NewDouble constructs a floating Double tag.
func NewDouble(v float64) *Tag { return &Tag{kind: Double, f64: v} }

// NewByteArray constructs a floating ByteArray tag, copying data.
func NewByteArray(data []byte) *Tag {
	t := &Tag{kind: ByteArray}
	t.bytes = append([]byte(nil), data...)
	return t
}

// NewString constructs a floating String tag.
func NewString(s string) *Tag {
	return &Tag{kind: String, str: s}
}

// NewList constructs a floating List tag. If children is non-empty, the
// list's element kind is taken from the first child and every subsequent
// child must share it; a List constructed with no children has an unset
// (End) element kind until SetElementKind or the first Insert fixes it.
// children are parented (retained) by this call.
func NewList(children ...*Tag) *Tag {
	t := &Tag{kind: List, elemKind: End}
	for _, c := range children {
		t.Insert(t.Len(), c)
	}
	return t
}

// NewCompound constructs a floating Compound tag from name/value pairs.
// Later entries with a duplicate name replace earlier ones, per Set's
// replacement semantics.
func NewCompound(entries ...Entry) *Tag {
	t := &Tag{kind: Compound, compoundByID: make(map[string]int)}
	for _, e := range entries {
		t.Set(e.Name, e.Value)
	}
	return t
}

// Entry is a (name, value) pair used to build a Compound with NewCompound.
type Entry struct {
	Name  string
	Value *Tag
}

// Kind reports the tag's kind. Immutable after construction.
func (t *Tag) Kind() Kind {
	if t == nil {
		return End
	}
	return t.kind
}

// Retain increments the reference count and returns t, so it can be used
// inline: `keep := nbt.NewInt(1).Retain()`.
func (t *Tag) Retain() *Tag {
	if t == nil {
		diagf("nbt: Retain called on nil tag")
		return t
	}
	if t.freed {
		diagf("nbt: Retain called on freed tag")
		return t
	}
	t.refcount++
	return t
}

// Release decrements the reference count; when it reaches zero the tag
// (and, for List/Compound, each child exactly once) is released
// recursively. Release on a floating tag (refcount already 0, never
// retained or parented) frees it immediately - this is how a
// constructed-but-never-used tag, or a partially built document on a
// failed parse, is discarded without a leak.
func (t *Tag) Release() {
	if t == nil {
		return
	}
	if t.freed {
		diagf("nbt: double Release on already-freed tag")
		return
	}
	if t.refcount > 0 {
		t.refcount--
	}
	if t.refcount == 0 {
		t.free()
	}
}

func (t *Tag) free() {
	t.freed = true
	switch t.kind {
	case List:
		for _, child := range t.list {
			child.Release()
		}
		t.list = nil
	case Compound:
		for _, e := range t.compound {
			e.value.Release()
		}
		t.compound = nil
		t.compoundByID = nil
	}
}

// Int64 returns the widened value of an integer-kind tag (Byte, Short,
// Int, Long). Called on any other kind it logs via Diagnostic and returns
// zero.
func (t *Tag) Int64() int64 {
	if t == nil || !t.kind.isInteger() {
		wrongKind("Int64", Long, t.Kind())
		return 0
	}
	return t.i64
}

// SetInt64 sets the value of an integer-kind tag, truncating by two's
// complement wrap if the tag's kind is narrower than 64 bits. Called on
// any other kind it logs via Diagnostic and is a no-op.
func (t *Tag) SetInt64(v int64) {
	if t == nil || !t.kind.isInteger() {
		wrongKind("SetInt64", Long, t.Kind())
		return
	}
	switch t.kind {
	case Byte:
		t.i64 = int64(int8(v))
	case Short:
		t.i64 = int64(int16(v))
	case Int:
		t.i64 = int64(int32(v))
	case Long:
		t.i64 = v
	}
}

// Float64 returns the widened value of a Float or Double tag. Called on
// any other kind it logs via Diagnostic and returns zero.
func (t *Tag) Float64() float64 {
	if t == nil || !t.kind.isFloat() {
		wrongKind("Float64", Double, t.Kind())
		return 0
	}
	return t.f64
}

// SetFloat64 sets the value of a Float or Double tag (narrowing to
// float32 precision for Float). Called on any other kind it logs via
// Diagnostic and is a no-op.
func (t *Tag) SetFloat64(v float64) {
	if t == nil || !t.kind.isFloat() {
		wrongKind("SetFloat64", Double, t.Kind())
		return
	}
	if t.kind == Float {
		t.f64 = float64(float32(v))
	} else {
		t.f64 = v
	}
}

// Len returns the length of a ByteArray's data, a List's element count,
// or a Compound's entry count. Called on any other kind it logs via
// Diagnostic and returns zero.
func (t *Tag) Len() int {
	if t == nil {
		return 0
	}
	switch t.kind {
	case ByteArray:
		return len(t.bytes)
	case List:
		return len(t.list)
	case Compound:
		return len(t.compound)
	default:
		wrongKind("Len", ByteArray, t.kind)
		return 0
	}
}

// Bytes returns a borrowed view of a ByteArray tag's data, valid until the
// next mutation. Called on any other kind it logs via Diagnostic and
// returns nil.
func (t *Tag) Bytes() []byte {
	if t == nil || t.kind != ByteArray {
		wrongKind("Bytes", ByteArray, t.Kind())
		return nil
	}
	return t.bytes
}

// SetBytes copies data into a ByteArray tag. Called on any other kind it
// logs via Diagnostic and is a no-op.
func (t *Tag) SetBytes(data []byte) {
	if t == nil || t.kind != ByteArray {
		wrongKind("SetBytes", ByteArray, t.Kind())
		return
	}
	t.bytes = append([]byte(nil), data...)
}

// Str returns a borrowed String tag's value. Called on any other kind it
// logs via Diagnostic and returns "".
func (t *Tag) Str() string {
	if t == nil || t.kind != String {
		wrongKind("Str", String, t.Kind())
		return ""
	}
	return t.str
}

// SetStr copies s into a String tag. Called on any other kind it logs via
// Diagnostic and is a no-op.
func (t *Tag) SetStr(s string) {
	if t == nil || t.kind != String {
		wrongKind("SetStr", String, t.Kind())
		return
	}
	t.str = s
}
