package nbt

// Kind identifies which of the eleven tag kinds a Tag holds. Kind is
// immutable once a Tag is constructed.
type Kind uint8

const (
	// End is a stream-only sentinel; it never appears as a standalone tag
	// in a user-visible tree.
	End Kind = iota
	Byte
	Short
	Int
	Long
	Float
	Double
	ByteArray
	String
	List
	Compound
)

func (k Kind) String() string {
	switch k {
	case End:
		return "End"
	case Byte:
		return "Byte"
	case Short:
		return "Short"
	case Int:
		return "Int"
	case Long:
		return "Long"
	case Float:
		return "Float"
	case Double:
		return "Double"
	case ByteArray:
		return "ByteArray"
	case String:
		return "String"
	case List:
		return "List"
	case Compound:
		return "Compound"
	default:
		return "Unknown"
	}
}

func (k Kind) isInteger() bool {
	return k == Byte || k == Short || k == Int || k == Long
}

func (k Kind) isFloat() bool {
	return k == Float || k == Double
}
