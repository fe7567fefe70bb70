package message_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m-lab/weechat-relay/message"
)

// intp is a small helper for constructing the *int count fields that
// EncodeHdata's vars and pointer-count arguments take.
func intp(n int) *int { return &n }

func TestEncodeInitScenario(t *testing.T) {
	got := message.EncodeInit("aaa", "jack2istheworst", message.CompressionZlib)
	want := "(aaa) init password=jack2istheworst,compression=zlib\n"
	if string(got) != want {
		t.Fatalf("EncodeInit = %q, want %q", got, want)
	}
}

func TestEncodePingScenario(t *testing.T) {
	got := message.EncodePing("ddd", []string{"test", "test2"})
	want := "(ddd) ping test test2\n"
	if string(got) != want {
		t.Fatalf("EncodePing = %q, want %q", got, want)
	}
}

func TestEncodeSyncNoArgsScenario(t *testing.T) {
	got := message.EncodeSync("eee", nil, nil)
	want := "(eee) sync\n"
	if string(got) != want {
		t.Fatalf("EncodeSync = %q, want %q", got, want)
	}
}

func TestEncodeInputScenario(t *testing.T) {
	got := message.EncodeInput("hhh", "irc.rpisec.#dingy", "message")
	want := "(hhh) input irc.rpisec.#dingy message\n"
	if string(got) != want {
		t.Fatalf("EncodeInput = %q, want %q", got, want)
	}
}

func TestEncodeHdataNestedVarsScenario(t *testing.T) {
	got := message.EncodeHdata("jjj", "buffer", "gui_buffers", nil, []message.HdataVar{
		{Name: "lines"},
		{Name: "first_line", Count: intp(3)},
		{Name: "data"},
	}, []string{"full_name", "test2"})
	want := "(jjj) hdata buffer:gui_buffers/lines/first_line(3)/data full_name,test2\n"
	if string(got) != want {
		t.Fatalf("EncodeHdata = %q, want %q", got, want)
	}
}

func TestEncodeDesyncMirrorsSync(t *testing.T) {
	buffers := []string{"irc.freenode.#a", "irc.freenode.#b"}
	opts := []message.SyncOption{message.SyncNicklist}
	sync := message.EncodeSync("x", buffers, opts)
	desync := message.EncodeDesync("x", buffers, opts)
	wantSync := "(x) sync irc.freenode.#a,irc.freenode.#b nicklist\n"
	wantDesync := "(x) desync irc.freenode.#a,irc.freenode.#b nicklist\n"
	if string(sync) != wantSync {
		t.Fatalf("EncodeSync = %q, want %q", sync, wantSync)
	}
	if string(desync) != wantDesync {
		t.Fatalf("EncodeDesync = %q, want %q", desync, wantDesync)
	}
}

// encoders lists one invocation (with id "id") of every command, for the universal
// encoder-contract properties (Testable Properties 1 and 2).
func encoders() map[string]func() []byte {
	return map[string]func() []byte{
		"init":     func() []byte { return message.EncodeInit("id", "", message.CompressionOff) },
		"hdata":    func() []byte { return message.EncodeHdata("id", "buffer", "", nil, nil, nil) },
		"info":     func() []byte { return message.EncodeInfo("id", "version") },
		"infolist": func() []byte { return message.EncodeInfoList("id", "buffer", "", nil) },
		"input":    func() []byte { return message.EncodeInput("id", "core.weechat", "/help") },
		"nicklist": func() []byte { return message.EncodeNicklist("id", "core.weechat") },
		"ping":     func() []byte { return message.EncodePing("id", []string{"x"}) },
		"quit":     func() []byte { return message.EncodeQuit("id") },
		"sync":     func() []byte { return message.EncodeSync("id", []string{"b"}, nil) },
		"desync":   func() []byte { return message.EncodeDesync("id", []string{"b"}, nil) },
		"test":     func() []byte { return message.EncodeTest("id") },
	}
}

func TestEncodersEndInExactlyOneNewline(t *testing.T) {
	for name, enc := range encoders() {
		t.Run(name, func(t *testing.T) {
			b := enc()
			if len(b) == 0 || b[len(b)-1] != '\n' {
				t.Fatalf("%s: does not end in newline: %q", name, b)
			}
			if strings.Count(string(b), "\n") != 1 {
				t.Fatalf("%s: contains more than one newline: %q", name, b)
			}
		})
	}
}

// TestEncodeIntoIdempotentAcrossCapacities exercises Testable Property 2:
// the required length an *Into encoder reports is identical regardless of
// the destination capacity, and it never writes past that capacity.
func TestEncodeIntoIdempotentAcrossCapacities(t *testing.T) {
	full := message.EncodeHdataInto(nil, "jjj", "buffer", "gui_buffers", nil, []message.HdataVar{
		{Name: "lines"},
		{Name: "first_line", Count: intp(3)},
	}, []string{"full_name"})

	for cap := 0; cap <= full+3; cap++ {
		dst := make([]byte, cap)
		n := message.EncodeHdataInto(dst, "jjj", "buffer", "gui_buffers", nil, []message.HdataVar{
			{Name: "lines"},
			{Name: "first_line", Count: intp(3)},
		}, []string{"full_name"})
		if n != full {
			t.Fatalf("cap=%d: required length = %d, want %d", cap, n, full)
		}
	}
}

func TestEncodeIntoMatchesEncode(t *testing.T) {
	for name, enc := range encoders() {
		t.Run(name, func(t *testing.T) {
			want := enc()
			dst := make([]byte, len(want))
			var n int
			switch name {
			case "init":
				n = message.EncodeInitInto(dst, "id", "", message.CompressionOff)
			case "hdata":
				n = message.EncodeHdataInto(dst, "id", "buffer", "", nil, nil, nil)
			case "info":
				n = message.EncodeInfoInto(dst, "id", "version")
			case "infolist":
				n = message.EncodeInfoListInto(dst, "id", "buffer", "", nil)
			case "input":
				n = message.EncodeInputInto(dst, "id", "core.weechat", "/help")
			case "nicklist":
				n = message.EncodeNicklistInto(dst, "id", "core.weechat")
			case "ping":
				n = message.EncodePingInto(dst, "id", []string{"x"})
			case "quit":
				n = message.EncodeQuitInto(dst, "id")
			case "sync":
				n = message.EncodeSyncInto(dst, "id", []string{"b"}, nil)
			case "desync":
				n = message.EncodeDesyncInto(dst, "id", []string{"b"}, nil)
			case "test":
				n = message.EncodeTestInto(dst, "id")
			}
			if n != len(want) || !bytes.Equal(dst, want) {
				t.Fatalf("%s: EncodeInto = (%d, %q), want (%d, %q)", name, n, dst, len(want), want)
			}
		})
	}
}

func TestEncodeWithoutIDOmitsParens(t *testing.T) {
	got := message.EncodeQuit("")
	want := "quit\n"
	if string(got) != want {
		t.Fatalf("EncodeQuit(\"\") = %q, want %q", got, want)
	}
}
