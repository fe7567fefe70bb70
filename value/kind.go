// Package value implements the WeeChat relay protocol's typed value codec:
// the twelve-variant Value sum type and the recursive decode/encode logic
// for its container kinds (HashTable, Array, Hdata, InfoList).
package value

import "github.com/m-lab/weechat-relay/codecerr"

// Kind is the compiled-enum form of a value's 3-byte wire type tag.
type Kind int

// The twelve value kinds, one per spec section 3.
const (
	Char Kind = iota
	Int
	Long
	String
	Buffer
	Pointer
	Time
	KindHashTable
	KindHdata
	KindInfo
	KindInfoList
	KindArray
)

// kindTags maps each Kind to its 3-byte wire tag. The five container kinds
// carry a Kind-prefixed name (KindHashTable, KindHdata, ...) because their
// unprefixed form is already taken by the corresponding container struct
// (HashTable, Hdata, ...) declared in value.go — Go does not allow a type
// and a constant to share a package-level name.
var kindTags = map[Kind]string{
	Char:          "chr",
	Int:           "int",
	Long:          "lon",
	String:        "str",
	Buffer:        "buf",
	Pointer:       "ptr",
	Time:          "tim",
	KindHashTable: "htb",
	KindHdata:     "hda",
	KindInfo:      "inf",
	KindInfoList:  "inl",
	KindArray:     "arr",
}

var tagKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTags))
	for k, t := range kindTags {
		m[t] = k
	}
	return m
}()

// Tag returns the 3-byte ASCII wire tag for k.
func (k Kind) Tag() string {
	return kindTags[k]
}

// String renders k for diagnostics.
func (k Kind) String() string {
	if t, ok := kindTags[k]; ok {
		return t
	}
	return "???"
}

// KindFromTag looks up the Kind named by a 3-byte wire tag.
func KindFromTag(tag string) (Kind, bool) {
	k, ok := tagKinds[tag]
	return k, ok
}

// kindFromTagOrErr is a helper shared by every decode entry point: it
// resolves an already-read raw tag to a Kind, failing with
// codecerr.UnknownType at offset and the raw tag bytes on a miss.
func kindFromTagOrErr(tag string, offset int) (Kind, error) {
	k, ok := KindFromTag(tag)
	if !ok {
		return 0, codecerr.Newf(codecerr.UnknownType, offset, "tag %q", tag)
	}
	return k, nil
}
