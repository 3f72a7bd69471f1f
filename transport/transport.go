// Package transport defines the byte-level boundary the packet framer
// blocks on. spec.md treats the physical UART as an external
// collaborator (§1, §3); this package is only the narrow contract the
// framer needs, plus Loopback, an in-process implementation used by
// tests. It never interprets packet contents.
package transport

// Transport is the contract a UART peripheral driver must satisfy.
// get_byte/put_byte in spec.md §3 are blocking by design: the framer
// parks on Transport.GetByte while the target is Stopped, and that is
// the intended way to idle the CPU between host commands.
type Transport interface {
	// GetByte blocks until a byte is available and returns it.
	GetByte() (byte, error)

	// PutByte blocks until b has been queued for transmission.
	PutByte(b byte) error
}

// Loopback is an in-memory Transport connecting a pair of byte queues,
// used by tests that want to feed a canned host byte stream to the
// framer and observe the target's replies without any real I/O.
type Loopback struct {
	in  chan byte
	out chan byte
}

// NewLoopbackPair returns two Transports wired back to back: bytes put
// on one are read from the other and vice versa.
func NewLoopbackPair() (target, host *Loopback) {
	a := make(chan byte, 4096)
	b := make(chan byte, 4096)
	return &Loopback{in: a, out: b}, &Loopback{in: b, out: a}
}

func (l *Loopback) GetByte() (byte, error) {
	return <-l.in, nil
}

func (l *Loopback) PutByte(b byte) error {
	l.out <- b
	return nil
}

// FeedString writes s to the peer byte by byte, as if this end had sent
// it. It is a test helper for Loopback's "host" end: tests call it there
// to feed a canned host byte stream to the target.
func (l *Loopback) FeedString(s string) {
	for i := 0; i < len(s); i++ {
		l.out <- s[i]
	}
}

// Drain reads every byte currently queued for transmission, without
// blocking once the queue is empty.
func (l *Loopback) Drain() []byte {
	var out []byte
	for {
		select {
		case b := <-l.out:
			out = append(out, b)
		default:
			return out
		}
	}
}
