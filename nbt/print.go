package nbt

import (
	"fmt"
	"io"
	"strconv"
)

// Print writes a compact textual form of t to w: scalars literal, strings
// quoted, Lists as [v, v, ...], Compounds as {"k": v, ...}. It is meant
// for human inspection and debugging, not as a round-trip format. Unlike
// the original's rs_tag_print, which mixes the caller's FILE* with a
// hard-coded stdout write for compound keys, this writes only to w.
func Print(t *Tag, w io.Writer) error {
	return printTag(t, w)
}

func printTag(t *Tag, w io.Writer) error {
	if t == nil {
		_, err := io.WriteString(w, "null")
		return err
	}
	switch t.kind {
	case Byte, Short, Int, Long:
		_, err := io.WriteString(w, strconv.FormatInt(t.i64, 10))
		return err
	case Float, Double:
		_, err := io.WriteString(w, strconv.FormatFloat(t.f64, 'f', -1, 64))
		return err
	case ByteArray:
		_, err := fmt.Fprintf(w, "%d bytes", len(t.bytes))
		return err
	case String:
		_, err := fmt.Fprintf(w, "%q", t.str)
		return err
	case List:
		if _, err := io.WriteString(w, "["); err != nil {
			return err
		}
		it := t.Iterator()
		first := true
		for child, ok := it.Next(); ok; child, ok = it.Next() {
			if !first {
				if _, err := io.WriteString(w, ", "); err != nil {
					return err
				}
			}
			first = false
			if err := printTag(child, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "]")
		return err
	case Compound:
		if _, err := io.WriteString(w, "{"); err != nil {
			return err
		}
		it := t.Entries()
		first := true
		for {
			name, child, ok := it.Next()
			if !ok {
				break
			}
			if !first {
				if _, err := io.WriteString(w, ", "); err != nil {
					return err
				}
			}
			first = false
			if _, err := fmt.Fprintf(w, "%q: ", name); err != nil {
				return err
			}
			if err := printTag(child, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "}")
		return err
	default:
		_, err := io.WriteString(w, "<end>")
		return err
	}
}
