package value

import (
	"strings"

	"github.com/m-lab/weechat-relay/codecerr"
	"github.com/m-lab/weechat-relay/wire"
)

// ReadTagged reads a 3-byte type tag followed by a value of that type. It is
// the entry point used wherever the wire carries a value's type alongside
// it: top-level message data and InfoList entries (tag read per entry).
// HashTable and Array read their element tags once in their headers and
// decode each element with Decode.
func ReadTagged(r *wire.Reader) (Value, error) {
	start := r.Offset()
	tag, err := r.TypeTag()
	if err != nil {
		return Value{}, err
	}
	k, err := kindFromTagOrErr(tag, start)
	if err != nil {
		return Value{}, err
	}
	return Decode(r, k)
}

// Decode reads the payload of a value already known to be of kind k.
func Decode(r *wire.Reader, k Kind) (Value, error) {
	switch k {
	case Char:
		v, err := r.Int8()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: Char, Char: v}, nil
	case Int:
		v, err := r.Int32()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: Int, Int: v}, nil
	case Long:
		v, err := r.Long()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: Long, Long: v}, nil
	case String, Buffer:
		data, ok, err := r.String()
		if err != nil {
			return Value{}, err
		}
		txt := Text{Bytes: data, Null: !ok}
		return Value{Kind: k, Str: txt}, nil
	case Pointer:
		v, err := r.Pointer()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: Pointer, Ptr: v}, nil
	case Time:
		v, err := r.Time()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: Time, Time: v}, nil
	case KindHashTable:
		return decodeHashTable(r)
	case KindArray:
		return decodeArray(r)
	case KindInfoList:
		return decodeInfoList(r)
	case KindInfo:
		return decodeInfo(r)
	case KindHdata:
		return decodeHdata(r)
	default:
		return Value{}, codecerr.Newf(codecerr.UnknownType, r.Offset(), "kind %v", k)
	}
}

func readText(r *wire.Reader) (Text, error) {
	data, ok, err := r.String()
	if err != nil {
		return Text{}, err
	}
	return Text{Bytes: data, Null: !ok}, nil
}

func decodeHashTable(r *wire.Reader) (Value, error) {
	keyStart := r.Offset()
	keyTag, err := r.TypeTag()
	if err != nil {
		return Value{}, err
	}
	keyKind, err := kindFromTagOrErr(keyTag, keyStart)
	if err != nil {
		return Value{}, err
	}
	valStart := r.Offset()
	valTag, err := r.TypeTag()
	if err != nil {
		return Value{}, err
	}
	valKind, err := kindFromTagOrErr(valTag, valStart)
	if err != nil {
		return Value{}, err
	}
	count, err := r.Int32()
	if err != nil {
		return Value{}, err
	}
	if count < 0 {
		return Value{}, codecerr.Newf(codecerr.MalformedLength, r.Offset(), "hashtable count %d", count)
	}
	ht := &HashTable{KeyKind: keyKind, ValKind: valKind, Entries: make([]HashEntry, 0, count)}
	for i := int32(0); i < count; i++ {
		k, err := Decode(r, keyKind)
		if err != nil {
			return Value{}, err
		}
		v, err := Decode(r, valKind)
		if err != nil {
			return Value{}, err
		}
		ht.Entries = append(ht.Entries, HashEntry{Key: k, Value: v})
	}
	return Value{Kind: KindHashTable, HashTable: ht}, nil
}

func decodeArray(r *wire.Reader) (Value, error) {
	elemStart := r.Offset()
	elemTag, err := r.TypeTag()
	if err != nil {
		return Value{}, err
	}
	elemKind, err := kindFromTagOrErr(elemTag, elemStart)
	if err != nil {
		return Value{}, err
	}
	count, err := r.Int32()
	if err != nil {
		return Value{}, err
	}
	if count < 0 {
		return Value{}, codecerr.Newf(codecerr.MalformedLength, r.Offset(), "array count %d", count)
	}
	arr := &Array{ElemKind: elemKind, Elements: make([]Value, 0, count)}
	for i := int32(0); i < count; i++ {
		v, err := Decode(r, elemKind)
		if err != nil {
			return Value{}, err
		}
		arr.Elements = append(arr.Elements, v)
	}
	return Value{Kind: KindArray, Array: arr}, nil
}

func decodeInfo(r *wire.Reader) (Value, error) {
	name, err := readText(r)
	if err != nil {
		return Value{}, err
	}
	val, err := readText(r)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindInfo, Info: &Info{Name: name, Val: val}}, nil
}

func decodeInfoList(r *wire.Reader) (Value, error) {
	name, err := readText(r)
	if err != nil {
		return Value{}, err
	}
	count, err := r.Int32()
	if err != nil {
		return Value{}, err
	}
	if count < 0 {
		return Value{}, codecerr.Newf(codecerr.MalformedLength, r.Offset(), "infolist count %d", count)
	}
	list := &InfoList{Name: name, Items: make([]InfoListItem, 0, count)}
	for i := int32(0); i < count; i++ {
		entryCount, err := r.Int32()
		if err != nil {
			return Value{}, err
		}
		if entryCount < 0 {
			return Value{}, codecerr.Newf(codecerr.MalformedLength, r.Offset(), "infolist item entry count %d", entryCount)
		}
		var item InfoListItem
		if entryCount > 0 {
			item.Entries = make([]InfoListEntry, 0, entryCount)
		}
		for j := int32(0); j < entryCount; j++ {
			entryName, err := readText(r)
			if err != nil {
				return Value{}, err
			}
			v, err := ReadTagged(r)
			if err != nil {
				return Value{}, err
			}
			item.Entries = append(item.Entries, InfoListEntry{Name: entryName, Value: v})
		}
		list.Items = append(list.Items, item)
	}
	return Value{Kind: KindInfoList, InfoList: list}, nil
}

func decodeHdata(r *wire.Reader) (Value, error) {
	pathStart := r.Offset()
	pathText, err := readText(r)
	if err != nil {
		return Value{}, err
	}
	path := splitNonEmpty(pathText, "/")

	keysStart := r.Offset()
	keysText, err := readText(r)
	if err != nil {
		return Value{}, err
	}
	keys, err := parseHdataKeys(keysText, keysStart)
	if err != nil {
		return Value{}, err
	}
	_ = pathStart

	count, err := r.Int32()
	if err != nil {
		return Value{}, err
	}
	if count < 0 {
		return Value{}, codecerr.Newf(codecerr.MalformedLength, r.Offset(), "hdata count %d", count)
	}

	hd := &Hdata{Path: path, Keys: keys}
	if count > 0 {
		hd.Rows = make([]HdataRow, 0, count)
	}
	for i := int32(0); i < count; i++ {
		row := HdataRow{Path: make([]uint64, len(path)), Values: make([]Value, len(keys))}
		for p := range row.Path {
			ptr, err := r.Pointer()
			if err != nil {
				return Value{}, err
			}
			row.Path[p] = ptr
		}
		for k := range row.Values {
			v, err := Decode(r, keys[k].Kind)
			if err != nil {
				return Value{}, err
			}
			row.Values[k] = v
		}
		hd.Rows = append(hd.Rows, row)
	}
	return Value{Kind: KindHdata, Hdata: hd}, nil
}

// splitNonEmpty splits a Text's bytes on sep, treating null or empty text as
// zero components rather than a single empty component.
func splitNonEmpty(t Text, sep string) []string {
	if t.Null || len(t.Bytes) == 0 {
		return nil
	}
	return strings.Split(string(t.Bytes), sep)
}

// parseHdataKeys parses the "name1:typ,name2:typ,..." key schema string.
func parseHdataKeys(t Text, offset int) ([]HdataKey, error) {
	if t.Null || len(t.Bytes) == 0 {
		return nil, nil
	}
	parts := strings.Split(string(t.Bytes), ",")
	keys := make([]HdataKey, 0, len(parts))
	for _, p := range parts {
		idx := strings.LastIndexByte(p, ':')
		if idx < 0 {
			return nil, codecerr.Newf(codecerr.MalformedFrame, offset, "hdata key %q missing type tag", p)
		}
		name, tag := p[:idx], p[idx+1:]
		k, ok := KindFromTag(tag)
		if !ok {
			return nil, codecerr.Newf(codecerr.UnknownType, offset, "hdata key %q tag %q", name, tag)
		}
		keys = append(keys, HdataKey{Name: name, Kind: k})
	}
	return keys, nil
}
