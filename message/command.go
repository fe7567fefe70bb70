package message

import (
	"strconv"
	"strings"

	"github.com/m-lab/weechat-relay/metrics"
	"github.com/m-lab/weechat-relay/wire"
)

// CompressionType names the init command's compression negotiation values.
type CompressionType int

// Recognized CompressionType values.
const (
	CompressionOff CompressionType = iota
	CompressionZlib
)

func (c CompressionType) String() string {
	if c == CompressionZlib {
		return "zlib"
	}
	return "off"
}

// SyncOption names one of the sync/desync command's subscription options.
type SyncOption int

// Recognized SyncOption values.
const (
	SyncBuffers SyncOption = iota
	SyncUpgrade
	SyncBuffer
	SyncNicklist
)

func (o SyncOption) String() string {
	switch o {
	case SyncBuffers:
		return "buffers"
	case SyncUpgrade:
		return "upgrade"
	case SyncBuffer:
		return "buffer"
	case SyncNicklist:
		return "nicklist"
	default:
		return ""
	}
}

// HdataVar is one path-traversal step of an hdata command, optionally
// bounded to the first/last n items (e.g. "first_line(3)").
type HdataVar struct {
	Name  string
	Count *int
}

// build runs fn twice: once against a nil destination to measure the exact
// required length (wire.Writer's virtual cursor makes this cheap and exact,
// per spec section 9's "two-pass is acceptable" note), then against a
// right-sized destination. It returns the full encoded command.
func build(command string, fn func(w *wire.Writer)) []byte {
	w := wire.NewWriter(nil)
	fn(w)
	buf := make([]byte, w.Len())
	w2 := wire.NewWriter(buf)
	fn(w2)
	metrics.EncodeCallsTotal.WithLabelValues(command).Inc()
	return buf
}

// encodeInto runs fn against dst and returns the exact required length,
// matching spec section 4.3's encoder contract: never writes past len(dst),
// and the returned length is exact even when dst is undersized.
func encodeInto(command string, dst []byte, fn func(w *wire.Writer)) int {
	w := wire.NewWriter(dst)
	fn(w)
	metrics.EncodeCallsTotal.WithLabelValues(command).Inc()
	return w.Len()
}

func writeHeader(w *wire.Writer, id, command string) {
	if id != "" {
		w.RawString("(")
		w.RawString(id)
		w.RawString(") ")
	}
	w.RawString(command)
}

func writeArgs(w *wire.Writer, args ...string) {
	for _, a := range args {
		if a == "" {
			continue
		}
		w.RawString(" ")
		w.RawString(a)
	}
}

// EncodeInit builds the "init" command. password is omitted from the
// argument list when empty.
func EncodeInit(id, password string, compression CompressionType) []byte {
	return build("init", func(w *wire.Writer) { writeInit(w, id, password, compression) })
}

// EncodeInitInto writes "init" into dst and returns the required length.
func EncodeInitInto(dst []byte, id, password string, compression CompressionType) int {
	return encodeInto("init", dst, func(w *wire.Writer) { writeInit(w, id, password, compression) })
}

func writeInit(w *wire.Writer, id, password string, compression CompressionType) {
	writeHeader(w, id, "init")
	var fields []string
	if password != "" {
		fields = append(fields, "password="+password)
	}
	fields = append(fields, "compression="+compression.String())
	writeArgs(w, strings.Join(fields, ","))
	w.RawString("\n")
}

// EncodeHdata builds the "hdata" command. If pointer is empty, the entire
// "name:pointer[...]" traversal clause is omitted and only name is sent.
func EncodeHdata(id, name, pointer string, ptrCount *int, vars []HdataVar, keys []string) []byte {
	return build("hdata", func(w *wire.Writer) { writeHdata(w, id, name, pointer, ptrCount, vars, keys) })
}

// EncodeHdataInto writes "hdata" into dst and returns the required length.
func EncodeHdataInto(dst []byte, id, name, pointer string, ptrCount *int, vars []HdataVar, keys []string) int {
	return encodeInto("hdata", dst, func(w *wire.Writer) { writeHdata(w, id, name, pointer, ptrCount, vars, keys) })
}

func writeHdata(w *wire.Writer, id, name, pointer string, ptrCount *int, vars []HdataVar, keys []string) {
	writeHeader(w, id, "hdata")
	var b strings.Builder
	b.WriteString(name)
	if pointer != "" {
		b.WriteString(":")
		b.WriteString(pointer)
		if ptrCount != nil {
			b.WriteString("(")
			b.WriteString(strconv.Itoa(*ptrCount))
			b.WriteString(")")
		}
		for _, v := range vars {
			b.WriteString("/")
			b.WriteString(v.Name)
			if v.Count != nil {
				b.WriteString("(")
				b.WriteString(strconv.Itoa(*v.Count))
				b.WriteString(")")
			}
		}
	}
	writeArgs(w, b.String())
	if len(keys) > 0 {
		writeArgs(w, strings.Join(keys, ","))
	}
	w.RawString("\n")
}

// EncodeInfo builds the "info" command.
func EncodeInfo(id, name string) []byte {
	return build("info", func(w *wire.Writer) { writeInfo(w, id, name) })
}

// EncodeInfoInto writes "info" into dst and returns the required length.
func EncodeInfoInto(dst []byte, id, name string) int {
	return encodeInto("info", dst, func(w *wire.Writer) { writeInfo(w, id, name) })
}

func writeInfo(w *wire.Writer, id, name string) {
	writeHeader(w, id, "info")
	writeArgs(w, name)
	w.RawString("\n")
}

// EncodeInfoList builds the "infolist" command. pointer and args are
// omitted when pointer is empty.
func EncodeInfoList(id, name, pointer string, args []string) []byte {
	return build("infolist", func(w *wire.Writer) { writeInfoList(w, id, name, pointer, args) })
}

// EncodeInfoListInto writes "infolist" into dst and returns the required length.
func EncodeInfoListInto(dst []byte, id, name, pointer string, args []string) int {
	return encodeInto("infolist", dst, func(w *wire.Writer) { writeInfoList(w, id, name, pointer, args) })
}

func writeInfoList(w *wire.Writer, id, name, pointer string, args []string) {
	writeHeader(w, id, "infolist")
	writeArgs(w, name)
	if pointer != "" {
		writeArgs(w, pointer)
		writeArgs(w, args...)
	}
	w.RawString("\n")
}

// EncodeInput builds the "input" command.
func EncodeInput(id, buffer, data string) []byte {
	return build("input", func(w *wire.Writer) { writeInput(w, id, buffer, data) })
}

// EncodeInputInto writes "input" into dst and returns the required length.
func EncodeInputInto(dst []byte, id, buffer, data string) int {
	return encodeInto("input", dst, func(w *wire.Writer) { writeInput(w, id, buffer, data) })
}

func writeInput(w *wire.Writer, id, buffer, data string) {
	writeHeader(w, id, "input")
	writeArgs(w, buffer, data)
	w.RawString("\n")
}

// EncodeNicklist builds the "nicklist" command. buffer is omitted when empty.
func EncodeNicklist(id, buffer string) []byte {
	return build("nicklist", func(w *wire.Writer) { writeNicklist(w, id, buffer) })
}

// EncodeNicklistInto writes "nicklist" into dst and returns the required length.
func EncodeNicklistInto(dst []byte, id, buffer string) int {
	return encodeInto("nicklist", dst, func(w *wire.Writer) { writeNicklist(w, id, buffer) })
}

func writeNicklist(w *wire.Writer, id, buffer string) {
	writeHeader(w, id, "nicklist")
	writeArgs(w, buffer)
	w.RawString("\n")
}

// EncodePing builds the "ping" command.
func EncodePing(id string, args []string) []byte {
	return build("ping", func(w *wire.Writer) { writePing(w, id, args) })
}

// EncodePingInto writes "ping" into dst and returns the required length.
func EncodePingInto(dst []byte, id string, args []string) int {
	return encodeInto("ping", dst, func(w *wire.Writer) { writePing(w, id, args) })
}

func writePing(w *wire.Writer, id string, args []string) {
	writeHeader(w, id, "ping")
	writeArgs(w, args...)
	w.RawString("\n")
}

// EncodeQuit builds the "quit" command, which takes no arguments.
func EncodeQuit(id string) []byte {
	return build("quit", func(w *wire.Writer) { writeHeader(w, id, "quit"); w.RawString("\n") })
}

// EncodeQuitInto writes "quit" into dst and returns the required length.
func EncodeQuitInto(dst []byte, id string) int {
	return encodeInto("quit", dst, func(w *wire.Writer) { writeHeader(w, id, "quit"); w.RawString("\n") })
}

// EncodeTest builds the "test" command, which takes no arguments.
func EncodeTest(id string) []byte {
	return build("test", func(w *wire.Writer) { writeHeader(w, id, "test"); w.RawString("\n") })
}

// EncodeTestInto writes "test" into dst and returns the required length.
func EncodeTestInto(dst []byte, id string) int {
	return encodeInto("test", dst, func(w *wire.Writer) { writeHeader(w, id, "test"); w.RawString("\n") })
}

// EncodeSync builds the "sync" command. The whole argument clause is
// omitted when buffers is empty, per spec section 4.3's sync grammar.
func EncodeSync(id string, buffers []string, options []SyncOption) []byte {
	return build("sync", func(w *wire.Writer) { writeSyncLike(w, id, "sync", buffers, options) })
}

// EncodeSyncInto writes "sync" into dst and returns the required length.
func EncodeSyncInto(dst []byte, id string, buffers []string, options []SyncOption) int {
	return encodeInto("sync", dst, func(w *wire.Writer) { writeSyncLike(w, id, "sync", buffers, options) })
}

// EncodeDesync builds the "desync" command. Per spec section 9's open
// question, desync shares sync's argument grammar exactly.
func EncodeDesync(id string, buffers []string, options []SyncOption) []byte {
	return build("desync", func(w *wire.Writer) { writeSyncLike(w, id, "desync", buffers, options) })
}

// EncodeDesyncInto writes "desync" into dst and returns the required length.
func EncodeDesyncInto(dst []byte, id string, buffers []string, options []SyncOption) int {
	return encodeInto("desync", dst, func(w *wire.Writer) { writeSyncLike(w, id, "desync", buffers, options) })
}

func writeSyncLike(w *wire.Writer, id, command string, buffers []string, options []SyncOption) {
	writeHeader(w, id, command)
	if len(buffers) > 0 {
		arg := strings.Join(buffers, ",")
		if len(options) > 0 {
			names := make([]string, len(options))
			for i, o := range options {
				names[i] = o.String()
			}
			arg += " " + strings.Join(names, ",")
		}
		writeArgs(w, arg)
	}
	w.RawString("\n")
}
