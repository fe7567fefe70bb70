// Package message implements the WeeChat relay protocol's outbound command
// encoders and inbound frame parser: the layer built atop wire and value
// that knows the overall shape of a relay exchange.
package message

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/m-lab/weechat-relay/codecerr"
	"github.com/m-lab/weechat-relay/metrics"
	"github.com/m-lab/weechat-relay/value"
	"github.com/m-lab/weechat-relay/wire"
)

// Message is a parsed server reply: an id (possibly null, per the wire
// string sentinel rule) and the ordered sequence of top-level values that
// followed it.
type Message struct {
	ID   value.Text
	Data []value.Value
}

// DataCount returns the number of top-level values in m.
func (m *Message) DataCount() int {
	return len(m.Data)
}

// DataItem returns the i'th top-level value, or ok=false if i is out of range.
func (m *Message) DataItem(i int) (value.Value, bool) {
	if i < 0 || i >= len(m.Data) {
		return value.Value{}, false
	}
	return m.Data[i], true
}

// compressionFlag values recognized after the 4-byte length.
const (
	compressionRaw  = 0
	compressionZlib = 1
)

// ParseLength reads the 4-byte big-endian total frame length from the start
// of buf. It returns 0 if fewer than 4 bytes are available, matching spec
// section 4.4's "not ready" contract.
func ParseLength(buf []byte) int32 {
	if len(buf) < 4 {
		return 0
	}
	return int32(uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]))
}

// Parse decodes one frame from the start of buf.
//
// If fewer than 4 bytes, or fewer than the declared total length, are
// available, Parse returns (nil, 0, nil): the caller should accumulate more
// bytes and retry. Parse never consumes a partial frame — either the whole
// frame decodes (returning the consumed length) or an error is returned and
// 0 bytes are consumed.
func Parse(buf []byte) (*Message, int, error) {
	total := ParseLength(buf)
	if len(buf) < 4 || len(buf) < int(total) {
		return nil, 0, nil
	}
	if total < 5 {
		return nil, 0, reportErr(codecerr.Newf(codecerr.MalformedFrame, 0, "total length %d < 5", total))
	}

	flag := buf[4]
	var payload []byte
	switch flag {
	case compressionRaw:
		payload = buf[5:total]
	case compressionZlib:
		inflated, err := inflate(buf[5:total])
		if err != nil {
			return nil, 0, reportErr(codecerr.Newf(codecerr.MalformedFrame, 5, "zlib: %s", err))
		}
		metrics.DecompressedBytesHistogram.Observe(float64(len(inflated)))
		payload = inflated
	default:
		return nil, 0, reportErr(codecerr.Newf(codecerr.MalformedFrame, 4, "compression flag %d", flag))
	}

	msg, err := decodePayload(payload)
	if err != nil {
		return nil, 0, reportErr(err)
	}
	metrics.FramesParsedTotal.Inc()
	return msg, int(total), nil
}

func decodePayload(payload []byte) (*Message, *codecerr.Error) {
	r := wire.NewReader(payload)
	idBytes, ok, err := r.String()
	if err != nil {
		return nil, wrapPayloadErr(err)
	}
	msg := &Message{ID: value.Text{Bytes: idBytes, Null: !ok}}
	for r.Remaining() > 0 {
		v, err := value.ReadTagged(r)
		if err != nil {
			return nil, wrapPayloadErr(err)
		}
		msg.Data = append(msg.Data, v)
	}
	return msg, nil
}

// wrapPayloadErr turns any decode error encountered while consuming an
// already-fully-buffered payload into MalformedFrame: once the frame's
// total length has been validated and the payload fully extracted (and
// decompressed), a short read mid-payload means the payload itself is
// inconsistent, not that more bytes are needed from the wire. Per spec
// section 4.4, step 6: "Errors during decoding of the decompressed payload
// are reported as MalformedFrame."
func wrapPayloadErr(err error) *codecerr.Error {
	if ce, ok := err.(*codecerr.Error); ok {
		return codecerr.Newf(codecerr.MalformedFrame, ce.Offset, "%s", ce.Error())
	}
	return codecerr.Newf(codecerr.MalformedFrame, 0, "%s", err)
}

func reportErr(err *codecerr.Error) error {
	metrics.ParseErrorsTotal.WithLabelValues(err.Kind.String()).Inc()
	return err
}

func inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
