// Package metrics defines the Prometheus metrics the WeeChat relay codec
// exposes, and provides convenience hooks so the wire/value/message
// packages can record them without depending on each other.
//
// When defining new operations or metrics, these are the helpful values to
// track: things coming into or out of the codec (frames, commands), the
// success or error status of each, and the size distribution of
// decompressed payloads.
package metrics

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesParsedTotal counts every frame that Parse successfully decoded.
	FramesParsedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weechat_relay_frames_parsed_total",
			Help: "Number of relay frames successfully parsed.",
		},
	)

	// ParseErrorsTotal counts decode failures, labeled by codecerr.Kind.
	//
	// Example usage:
	//   metrics.ParseErrorsTotal.WithLabelValues("malformed frame").Inc()
	ParseErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weechat_relay_parse_errors_total",
			Help: "Number of frame parse failures, by error kind.",
		}, []string{"kind"})

	// DecompressedBytesHistogram tracks the size of zlib-inflated payloads.
	DecompressedBytesHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weechat_relay_decompressed_bytes_histogram",
			Help:    "Size in bytes of decompressed frame payloads.",
			Buckets: prometheus.ExponentialBuckets(64, 2, 16),
		},
	)

	// EncodeCallsTotal counts every command encoded, labeled by command name.
	EncodeCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weechat_relay_encode_calls_total",
			Help: "Number of command-encode calls, by command name.",
		}, []string{"command"})
)

// init() prints a log message to let the user know that the package has
// been loaded and the metrics registered. The metrics are auto-registered,
// which means they are registered as soon as this package is loaded, and
// the exact time this occurs (and whether this occurs at all in a given
// context) can be opaque.
func init() {
	log.Println("Prometheus metrics in weechat-relay.metrics are registered.")
}
