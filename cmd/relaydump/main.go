// Main package in relaydump implements a command line tool that decodes a
// capture of concatenated WeeChat relay frames and flattens any hdata
// replies it finds into a CSV table, one row per (message, hdata row,
// column) triple.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/m-lab/go/flagx"
	"github.com/m-lab/go/prometheusx"
	"github.com/m-lab/go/rtx"

	"github.com/m-lab/weechat-relay/message"
	"github.com/m-lab/weechat-relay/value"
)

func init() {
	// Always prepend the filename and line number.
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

var (
	input    = flag.String("in", "", "Capture file of concatenated relay frames. Default is stdin.")
	output   = flag.String("csv", "", "CSV output file. Default is stdout.")
	promPort = flag.String("prom", "", "Prometheus metrics export address and port, e.g. ':9090'. Disabled when empty.")
)

// cell is one flattened hdata value: one row per (message, hdata path, row
// index, column) quadruple, so the CSV schema never has to change shape
// with the column set of whatever hdata happened to come back.
type cell struct {
	MessageID string
	HdataPath string
	Row       int
	Column    string
	Value     string
}

func main() {
	flag.Parse()
	flagx.ArgsFromEnv(flag.CommandLine)

	ctx := context.Background()
	if *promPort != "" {
		promSrv := prometheusx.MustStartPrometheus(*promPort)
		defer promSrv.Shutdown(ctx)
	}

	src := os.Stdin
	if *input != "" {
		f, err := os.Open(*input)
		rtx.Must(err, "Could not open %q", *input)
		defer f.Close()
		src = f
	}

	buf, err := io.ReadAll(src)
	rtx.Must(err, "Could not read input")

	dst := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		rtx.Must(err, "Could not create %q", *output)
		defer f.Close()
		dst = f
	}

	cells, err := dump(buf)
	rtx.Must(err, "Could not decode capture")
	rtx.Must(gocsv.Marshal(cells, dst), "Could not write CSV")
}

// dump decodes every frame in buf in order and flattens every hdata reply's
// rows into cells. Non-hdata top-level values are skipped: there is no
// single tabular shape for info/infolist/array replies that would not
// itself require per-kind flags, and this tool's purpose is inspecting
// hdata dumps.
func dump(buf []byte) ([]cell, error) {
	var cells []cell
	for len(buf) > 0 {
		msg, consumed, err := message.Parse(buf)
		if err != nil {
			return nil, err
		}
		if consumed == 0 {
			return nil, fmt.Errorf("trailing %d bytes are not a complete frame", len(buf))
		}
		cells = append(cells, flattenMessage(msg)...)
		buf = buf[consumed:]
	}
	return cells, nil
}

func flattenMessage(msg *message.Message) []cell {
	id := textString(msg.ID)
	var cells []cell
	for i := 0; i < msg.DataCount(); i++ {
		v, _ := msg.DataItem(i)
		if v.Kind != value.KindHdata {
			continue
		}
		cells = append(cells, flattenHdata(id, v.Hdata)...)
	}
	return cells
}

func flattenHdata(msgID string, h *value.Hdata) []cell {
	path := ""
	for i := 0; i < message.HdataPathCount(h); i++ {
		if p, ok := message.HdataPathItem(h, i); ok {
			if path != "" {
				path += "/"
			}
			path += p
		}
	}

	var cells []cell
	for row := 0; row < message.HdataBufferCount(h); row++ {
		for col := 0; col < message.HdataKeysCount(h); col++ {
			key, _ := message.HdataKeysItem(h, col)
			v, _ := message.HdataBufferObjectItem(h, row, col)
			cells = append(cells, cell{
				MessageID: msgID,
				HdataPath: path,
				Row:       row,
				Column:    key.Name,
				Value:     valueString(v),
			})
		}
	}
	return cells
}

func textString(t value.Text) string {
	if t.Null {
		return ""
	}
	return string(t.Bytes)
}

// valueString renders a scalar Value for the CSV cell. Container-kind
// values (nested hdata, arrays, etc.) render as their kind name rather than
// being recursively flattened, since a row's declared key kind is fixed by
// its schema and columns are rarely containers in practice.
func valueString(v value.Value) string {
	switch v.Kind {
	case value.Char:
		return string(rune(v.Char))
	case value.Int:
		return strconv.FormatInt(int64(v.Int), 10)
	case value.Long:
		return strconv.FormatInt(v.Long, 10)
	case value.String, value.Buffer:
		return textString(v.Str)
	case value.Pointer:
		return "0x" + strconv.FormatUint(v.Ptr, 16)
	case value.Time:
		return strconv.FormatUint(v.Time, 10)
	default:
		return v.Kind.String()
	}
}
