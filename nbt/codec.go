package nbt

import (
	"fmt"
	"unicode/utf8"

	"github.com/blockvault/redstone/internal/endian"
	"github.com/blockvault/redstone/internal/xcompress"
)

// Wire kind bytes. These are distinct from Kind's values only in name;
// End through Compound occupy 0-10 on the wire exactly as in the
// in-memory Kind enum.
const (
	wireEnd       = byte(End)
	wireByte      = byte(Byte)
	wireShort     = byte(Short)
	wireInt       = byte(Int)
	wireLong      = byte(Long)
	wireFloat     = byte(Float)
	wireDouble    = byte(Double)
	wireByteArray = byte(ByteArray)
	wireString    = byte(String)
	wireList      = byte(List)
	wireCompound  = byte(Compound)
)

// Parse decodes a byte stream into a Document. If the stream begins with
// the gzip magic (0x1F 0x8B) it is inflated first; otherwise it is parsed
// raw. The top level must be a named Compound tag.
func Parse(data []byte) (*Document, error) {
	if len(data) >= 2 && data[0] == xcompress.GzipMagic[0] && data[1] == xcompress.GzipMagic[1] {
		raw, err := xcompress.Inflate(data, xcompress.Gzip)
		if err != nil {
			return nil, err
		}
		data = raw
	}

	d := &decoder{buf: data}
	name, tag, err := d.readNamedTag()
	if err != nil {
		if tag != nil {
			tag.Release()
		}
		return nil, err
	}
	if tag.Kind() != Compound {
		tag.Release()
		return nil, fmt.Errorf("%w: root tag is %s, want Compound", ErrMalformed, tag.Kind())
	}
	tag.Retain()
	return &Document{RootName: name, Root: tag}, nil
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) remaining() []byte {
	if d.pos >= len(d.buf) {
		return nil
	}
	return d.buf[d.pos:]
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.buf) {
		return nil, ErrTruncated
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// readNamedTag reads `u8 kind · u16 name-length · name · payload(kind)`.
// For kind End, name and payload are absent and readNamedTag returns a
// nil Tag with a nil error; readCompound checks for that nil Tag to
// recognize the end of a Compound's entry sequence.
func (d *decoder) readNamedTag() (string, *Tag, error) {
	kindByte, err := d.take(1)
	if err != nil {
		return "", nil, err
	}
	kind := kindByte[0]
	if kind == wireEnd {
		return "", nil, nil
	}
	if kind > wireCompound {
		return "", nil, ErrUnknownKind
	}

	nameLenB, err := d.take(2)
	if err != nil {
		return "", nil, err
	}
	nameLen, _ := endian.BU16(nameLenB)
	nameB, err := d.take(int(nameLen))
	if err != nil {
		return "", nil, err
	}
	if !utf8.Valid(nameB) {
		return "", nil, ErrMalformed
	}
	name := string(nameB)

	tag, err := d.readPayload(Kind(kind))
	if err != nil {
		return name, tag, err
	}
	return name, tag, nil
}

func (d *decoder) readPayload(kind Kind) (*Tag, error) {
	switch kind {
	case Byte:
		b, err := d.take(1)
		if err != nil {
			return nil, err
		}
		return NewByte(int8(b[0])), nil
	case Short:
		b, err := d.take(2)
		if err != nil {
			return nil, err
		}
		v, _ := endian.BU16(b)
		return NewShort(int16(v)), nil
	case Int:
		b, err := d.take(4)
		if err != nil {
			return nil, err
		}
		v, _ := endian.BU32(b)
		return NewInt(int32(v)), nil
	case Long:
		b, err := d.take(8)
		if err != nil {
			return nil, err
		}
		v, _ := endian.BU64(b)
		return NewLong(int64(v)), nil
	case Float:
		b, err := d.take(4)
		if err != nil {
			return nil, err
		}
		v, _ := endian.BU32(b)
		return NewFloat(float32FromBits(v)), nil
	case Double:
		b, err := d.take(8)
		if err != nil {
			return nil, err
		}
		v, _ := endian.BU64(b)
		return NewDouble(float64FromBits(v)), nil
	case ByteArray:
		lenB, err := d.take(4)
		if err != nil {
			return nil, err
		}
		n, _ := endian.BU32(lenB)
		if int32(n) < 0 {
			return nil, ErrMalformed
		}
		data, err := d.take(int(n))
		if err != nil {
			return nil, err
		}
		return NewByteArray(data), nil
	case String:
		lenB, err := d.take(2)
		if err != nil {
			return nil, err
		}
		n, _ := endian.BU16(lenB)
		data, err := d.take(int(n))
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(data) {
			return nil, ErrMalformed
		}
		return NewString(string(data)), nil
	case List:
		return d.readList()
	case Compound:
		return d.readCompound()
	default:
		return nil, ErrUnknownKind
	}
}

func (d *decoder) readList() (*Tag, error) {
	elemKindB, err := d.take(1)
	if err != nil {
		return nil, err
	}
	if elemKindB[0] > wireCompound {
		return nil, ErrUnknownKind
	}
	elemKind := Kind(elemKindB[0])

	lenB, err := d.take(4)
	if err != nil {
		return nil, err
	}
	nRaw, _ := endian.BU32(lenB)
	if int32(nRaw) < 0 {
		return nil, ErrMalformed
	}
	n := int(nRaw)

	list := &Tag{kind: List, elemKind: elemKind}
	for i := 0; i < n; i++ {
		child, err := d.readPayload(elemKind)
		if err != nil {
			list.Release()
			return nil, err
		}
		list.Insert(list.Len(), child) // parents child, consuming its floating ref
	}
	return list, nil
}

func (d *decoder) readCompound() (*Tag, error) {
	compound := NewCompound()
	for {
		name, child, err := d.readNamedTag()
		if err != nil {
			compound.Release()
			return nil, err
		}
		if child == nil {
			// End tag reached.
			return compound, nil
		}
		compound.Set(name, child) // parents child, consuming its floating ref
	}
}

// Write serializes doc into a byte stream: a named Compound header using
// doc.RootName, the recursively serialized root, closed with an End tag.
// It never gzip-frames; file-level writers add that.
func Write(doc *Document) ([]byte, error) {
	if doc.Root.Kind() != Compound {
		return nil, fmt.Errorf("%w: root tag is %s, want Compound", ErrMalformed, doc.Root.Kind())
	}
	var buf xcompress.Buffer
	if err := writeNamedTag(&buf, doc.RootName, doc.Root); err != nil {
		return nil, err
	}
	return buf.Finalize(), nil
}

func writeNamedTag(buf *xcompress.Buffer, name string, t *Tag) error {
	buf.Append([]byte{byte(t.Kind())})
	buf.Append(endian.PutBU16(nil, uint16(len(name))))
	buf.Append([]byte(name))
	return writePayload(buf, t)
}

func writePayload(buf *xcompress.Buffer, t *Tag) error {
	switch t.Kind() {
	case Byte:
		buf.Append([]byte{byte(int8(t.Int64()))})
	case Short:
		buf.Append(endian.PutBU16(nil, uint16(int16(t.Int64()))))
	case Int:
		buf.Append(endian.PutBU32(nil, uint32(int32(t.Int64()))))
	case Long:
		buf.Append(endian.PutBU64(nil, uint64(t.Int64())))
	case Float:
		buf.Append(endian.PutBU32(nil, float32Bits(float32(t.Float64()))))
	case Double:
		buf.Append(endian.PutBU64(nil, float64Bits(t.Float64())))
	case ByteArray:
		data := t.Bytes()
		buf.Append(endian.PutBU32(nil, uint32(len(data))))
		buf.Append(data)
	case String:
		s := t.Str()
		buf.Append(endian.PutBU16(nil, uint16(len(s))))
		buf.Append([]byte(s))
	case List:
		// A never-populated list defaults to End; a list whose elements
		// were all deleted keeps whatever kind was fixed.
		elemKind := t.ElementKind()
		buf.Append([]byte{byte(elemKind)})
		buf.Append(endian.PutBU32(nil, uint32(t.Len())))
		it := t.Iterator()
		for child, ok := it.Next(); ok; child, ok = it.Next() {
			if err := writePayload(buf, child); err != nil {
				return err
			}
		}
	case Compound:
		it := t.Entries()
		for {
			name, child, ok := it.Next()
			if !ok {
				break
			}
			if err := writeNamedTag(buf, name, child); err != nil {
				return err
			}
		}
		buf.Append([]byte{wireEnd})
	default:
		return fmt.Errorf("%w: cannot write tag kind %s", ErrMalformed, t.Kind())
	}
	return nil
}
