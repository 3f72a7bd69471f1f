package packet

import (
	"testing"

	"github.com/msalau/rx-gdb-stub/transport"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	target, host := transport.NewLoopbackPair()

	payload := []byte("g")
	go func() {
		if err := Send(target, payload); err != nil {
			t.Errorf("Send: %v", err)
		}
	}()

	buf := NewBuffer(512)
	got, err := buf.Receive(host)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("Receive = %q, want %q", got, payload)
	}
}

func TestStrayDollarRestartsReception(t *testing.T) {
	target, host := transport.NewLoopbackPair()
	host.FeedString("$abc$m20000000,4#4f")

	buf := NewBuffer(512)
	got, err := buf.Receive(target)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if string(got) != "m20000000,4" {
		t.Fatalf("Receive = %q, want m20000000,4", got)
	}
	ack := drainOne(t, host)
	if ack != '+' {
		t.Fatalf("ack = %q, want +", ack)
	}
}

func TestBadChecksumNaks(t *testing.T) {
	target, host := transport.NewLoopbackPair()
	// "g" sums to 0x67; the first frame below has a deliberately wrong
	// checksum, followed by a correctly-checksummed retransmission.
	host.FeedString("$g#00$g#67")

	buf := NewBuffer(512)
	result := make(chan []byte, 1)
	go func() {
		got, err := buf.Receive(target)
		if err != nil {
			t.Errorf("Receive: %v", err)
		}
		result <- got
	}()

	if ack := drainOne(t, host); ack != '-' {
		t.Fatalf("first ack = %q, want - (nak)", ack)
	}
	if ack := drainOne(t, host); ack != '+' {
		t.Fatalf("second ack = %q, want + (ack)", ack)
	}
	got := <-result
	if string(got) != "g" {
		t.Fatalf("Receive = %q, want g", got)
	}
}

func drainOne(t *testing.T, l *transport.Loopback) byte {
	t.Helper()
	b, err := l.GetByte()
	if err != nil {
		t.Fatalf("GetByte: %v", err)
	}
	return b
}
