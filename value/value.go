package value

// Text is a length-prefixed wire string or buffer: Null distinguishes the
// -1 sentinel from an empty (but present) payload, per spec section 3's
// string-sentinel rule. Bytes is nil when Null is true and a non-nil
// (possibly zero-length) slice otherwise.
type Text struct {
	Bytes []byte
	Null  bool
}

// NewText wraps data as a non-null Text. A nil data becomes an empty slice.
func NewText(data []byte) Text {
	if data == nil {
		data = []byte{}
	}
	return Text{Bytes: data}
}

// NullText returns the null sentinel Text.
func NullText() Text {
	return Text{Null: true}
}

// Equal reports whether t and other encode the same wire value, treating
// null and empty as distinct (so callers get the Testable Property 3
// round-trip guarantee for free from a plain equality check).
func (t Text) Equal(other Text) bool {
	if t.Null != other.Null {
		return false
	}
	if t.Null {
		return true
	}
	return string(t.Bytes) == string(other.Bytes)
}

// Value is the sum type at the center of the protocol: one of twelve
// variants, discriminated by Kind. Only the fields relevant to Kind are
// meaningful; the rest are zero. Container kinds own their children
// exclusively — copying a Value copies the container pointer, not a new
// value tree, matching the teacher's Go-idiomatic "container owns its
// contents, views borrow" convention.
type Value struct {
	Kind Kind

	// Scalar payloads.
	Char    int8
	Int     int32
	Long    int64
	Ptr     uint64
	Time    uint64
	Str     Text // used for both String and Buffer kinds

	// Container payloads.
	HashTable *HashTable
	Hdata     *Hdata
	Info      *Info
	InfoList  *InfoList
	Array     *Array
}

// HashTable is an ordered key/value table with a declared key and value
// type for every entry.
type HashTable struct {
	KeyKind Kind
	ValKind Kind
	Entries []HashEntry
}

// HashEntry is one (key, value) pair of a HashTable, preserving wire order.
type HashEntry struct {
	Key   Value
	Value Value
}

// HdataKey names one column of an Hdata's row schema.
type HdataKey struct {
	Name string
	Kind Kind
}

// HdataRow is one row of an Hdata table: one Pointer per path component,
// plus one Value per declared key, in schema order.
type HdataRow struct {
	Path   []uint64
	Values []Value
}

// Hdata is a schema (path + keys) plus the rows it describes. Rows are
// stored row-major so PathItem/ObjectItem accessors are O(1), per spec
// section 9's storage guidance.
type Hdata struct {
	Path []string
	Keys []HdataKey
	Rows []HdataRow
}

// Info is a single named string value; both Name and Val use the wire
// string representation and so can independently be null.
type Info struct {
	Name Text
	Val  Text
}

// InfoListEntry is one named, independently-typed field of an InfoListItem.
// The type tag is carried per-entry, not per-column: two items in the same
// InfoList may type the same field name differently.
type InfoListEntry struct {
	Name  Text
	Value Value
}

// InfoListItem is one row of an InfoList: an ordered set of heterogeneous
// named entries.
type InfoListItem struct {
	Entries []InfoListEntry
}

// InfoList is a named, heterogeneous list of items.
type InfoList struct {
	Name  Text
	Items []InfoListItem
}

// Array is an ordered, homogeneously-typed sequence of values.
type Array struct {
	ElemKind Kind
	Elements []Value
}
