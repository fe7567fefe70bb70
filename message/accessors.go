package message

import "github.com/m-lab/weechat-relay/value"

// This file implements spec section 4.5's bounded accessor surface over the
// container Value kinds. Each accessor is a plain index with a bounds
// check, returning ok=false rather than panicking on out-of-range access —
// there is no separate "free the message" step, since Go's garbage
// collector owns the Message and everything it points to for as long as
// any accessor result is reachable.

// HdataPathCount returns the number of path components h was addressed by.
func HdataPathCount(h *value.Hdata) int {
	return len(h.Path)
}

// HdataPathItem returns the i'th path component name.
func HdataPathItem(h *value.Hdata, i int) (string, bool) {
	if i < 0 || i >= len(h.Path) {
		return "", false
	}
	return h.Path[i], true
}

// HdataKeysCount returns the number of declared columns in h's row schema.
func HdataKeysCount(h *value.Hdata) int {
	return len(h.Keys)
}

// HdataKeysItem returns the i'th column's name and value kind.
func HdataKeysItem(h *value.Hdata, i int) (value.HdataKey, bool) {
	if i < 0 || i >= len(h.Keys) {
		return value.HdataKey{}, false
	}
	return h.Keys[i], true
}

// HdataBufferCount returns the number of rows in h.
func HdataBufferCount(h *value.Hdata) int {
	return len(h.Rows)
}

// HdataBufferPathItem returns the pointer at path component j of row i.
func HdataBufferPathItem(h *value.Hdata, row, j int) (uint64, bool) {
	if row < 0 || row >= len(h.Rows) {
		return 0, false
	}
	r := h.Rows[row]
	if j < 0 || j >= len(r.Path) {
		return 0, false
	}
	return r.Path[j], true
}

// HdataBufferObjectItem returns the value of column k of row i.
func HdataBufferObjectItem(h *value.Hdata, row, k int) (value.Value, bool) {
	if row < 0 || row >= len(h.Rows) {
		return value.Value{}, false
	}
	r := h.Rows[row]
	if k < 0 || k >= len(r.Values) {
		return value.Value{}, false
	}
	return r.Values[k], true
}

// ArrayCount returns the number of elements in a.
func ArrayCount(a *value.Array) int {
	return len(a.Elements)
}

// ArrayItem returns the i'th element of a.
func ArrayItem(a *value.Array, i int) (value.Value, bool) {
	if i < 0 || i >= len(a.Elements) {
		return value.Value{}, false
	}
	return a.Elements[i], true
}

// HashTableCount returns the number of entries in ht.
func HashTableCount(ht *value.HashTable) int {
	return len(ht.Entries)
}

// HashTableItem returns the i'th (key, value) entry of ht.
func HashTableItem(ht *value.HashTable, i int) (value.HashEntry, bool) {
	if i < 0 || i >= len(ht.Entries) {
		return value.HashEntry{}, false
	}
	return ht.Entries[i], true
}

// InfoListCount returns the number of items in l.
func InfoListCount(l *value.InfoList) int {
	return len(l.Items)
}

// InfoListItemAt returns the i'th item of l.
func InfoListItemAt(l *value.InfoList, i int) (value.InfoListItem, bool) {
	if i < 0 || i >= len(l.Items) {
		return value.InfoListItem{}, false
	}
	return l.Items[i], true
}

// InfoListEntryCount returns the number of entries in item.
func InfoListEntryCount(item value.InfoListItem) int {
	return len(item.Entries)
}

// InfoListEntryItem returns the i'th entry of item.
func InfoListEntryItem(item value.InfoListItem, i int) (value.InfoListEntry, bool) {
	if i < 0 || i >= len(item.Entries) {
		return value.InfoListEntry{}, false
	}
	return item.Entries[i], true
}
