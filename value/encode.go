package value

import (
	"strings"

	"github.com/m-lab/weechat-relay/wire"
)

// WriteTagged writes v's 3-byte type tag followed by its payload.
func WriteTagged(w *wire.Writer, v Value) {
	w.TypeTag(v.Kind.Tag())
	Write(w, v)
}

// Write writes v's payload only, assuming the reader already knows (or will
// separately learn, as with HashTable/Array element types) v's Kind.
func Write(w *wire.Writer, v Value) {
	switch v.Kind {
	case Char:
		w.Int8(v.Char)
	case Int:
		w.Int32(v.Int)
	case Long:
		w.Long(v.Long)
	case String, Buffer:
		writeText(w, v.Str)
	case Pointer:
		w.Pointer(v.Ptr)
	case Time:
		w.Time(v.Time)
	case KindHashTable:
		writeHashTable(w, v.HashTable)
	case KindArray:
		writeArray(w, v.Array)
	case KindInfo:
		writeInfo(w, v.Info)
	case KindInfoList:
		writeInfoList(w, v.InfoList)
	case KindHdata:
		writeHdata(w, v.Hdata)
	}
}

func writeText(w *wire.Writer, t Text) {
	if t.Null {
		w.String(nil, false)
		return
	}
	w.String(t.Bytes, true)
}

func writeHashTable(w *wire.Writer, ht *HashTable) {
	w.TypeTag(ht.KeyKind.Tag())
	w.TypeTag(ht.ValKind.Tag())
	w.Int32(int32(len(ht.Entries)))
	for _, e := range ht.Entries {
		Write(w, e.Key)
		Write(w, e.Value)
	}
}

func writeArray(w *wire.Writer, a *Array) {
	w.TypeTag(a.ElemKind.Tag())
	w.Int32(int32(len(a.Elements)))
	for _, e := range a.Elements {
		Write(w, e)
	}
}

func writeInfo(w *wire.Writer, inf *Info) {
	writeText(w, inf.Name)
	writeText(w, inf.Val)
}

func writeInfoList(w *wire.Writer, l *InfoList) {
	writeText(w, l.Name)
	w.Int32(int32(len(l.Items)))
	for _, item := range l.Items {
		w.Int32(int32(len(item.Entries)))
		for _, e := range item.Entries {
			writeText(w, e.Name)
			WriteTagged(w, e.Value)
		}
	}
}

func writeHdata(w *wire.Writer, h *Hdata) {
	writeText(w, joinPath(h.Path))
	writeText(w, joinKeys(h.Keys))
	w.Int32(int32(len(h.Rows)))
	for _, row := range h.Rows {
		for _, p := range row.Path {
			w.Pointer(p)
		}
		for _, v := range row.Values {
			Write(w, v)
		}
	}
}

func joinPath(path []string) Text {
	if len(path) == 0 {
		return NullText()
	}
	return NewText([]byte(strings.Join(path, "/")))
}

func joinKeys(keys []HdataKey) Text {
	if len(keys) == 0 {
		return NullText()
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.Name + ":" + k.Kind.Tag()
	}
	return NewText([]byte(strings.Join(parts, ",")))
}
