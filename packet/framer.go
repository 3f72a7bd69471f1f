// Package packet implements the $payload#checksum framing from
// spec.md §4.2: reception with restart-on-'$' and checksum verify/NAK,
// and transmission with unconditional retry until acknowledged.
package packet

import (
	"github.com/msalau/rx-gdb-stub/hexcodec"
	"github.com/msalau/rx-gdb-stub/transport"
)

const (
	start = '$'
	end   = '#'
	ack   = '+'
	nack  = '-'
)

// Buffer is the fixed-capacity byte buffer spec.md §3 describes,
// reused between reception and transmission. Its contents are only
// meaningful immediately after a Receive or immediately before a Send.
type Buffer struct {
	data []byte
}

// NewBuffer allocates a Buffer with the given capacity. spec.md §3
// requires at least 512 bytes.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, capacity)}
}

// Receive reads one $...#cc frame from t, verifying its checksum and
// replying '+' or '-' as it goes, restarting reception whenever a stray
// '$' interrupts an in-progress payload. It blocks until a
// checksum-valid frame has been received and acknowledged.
func (b *Buffer) Receive(t transport.Transport) ([]byte, error) {
	restart := false
	for {
		if !restart {
			if err := syncToStart(t); err != nil {
				return nil, err
			}
		}

		n := 0
		sum := byte(0)
		restart = false
		for {
			c, err := t.GetByte()
			if err != nil {
				return nil, err
			}
			if c == start {
				restart = true
				break
			}
			if c == end {
				break
			}
			if n < len(b.data) {
				b.data[n] = c
				n++
			}
			sum += c
		}
		if restart {
			continue
		}

		hi, err := t.GetByte()
		if err != nil {
			return nil, err
		}
		lo, err := t.GetByte()
		if err != nil {
			return nil, err
		}
		want, consumed := hexcodec.ParseUint32([]byte{hi, lo})
		if consumed != 2 || want != uint32(sum) {
			if err := t.PutByte(nack); err != nil {
				return nil, err
			}
			continue
		}

		if err := t.PutByte(ack); err != nil {
			return nil, err
		}
		return b.data[:n], nil
	}
}

func syncToStart(t transport.Transport) error {
	for {
		c, err := t.GetByte()
		if err != nil {
			return err
		}
		if c == start {
			return nil
		}
	}
}

// Send transmits payload as a $payload#cc frame and blocks until the
// peer acknowledges it with '+', retransmitting on '-' without limit —
// spec.md §4.2 specifies this as an unconditional retry, never a
// give-up.
func Send(t transport.Transport, payload []byte) error {
	sum := byte(0)
	for _, c := range payload {
		sum += c
	}
	var csum [2]byte
	hexcodec.Encode(csum[:], []byte{sum})

	for {
		if err := t.PutByte(start); err != nil {
			return err
		}
		for _, c := range payload {
			if err := t.PutByte(c); err != nil {
				return err
			}
		}
		if err := t.PutByte(end); err != nil {
			return err
		}
		if err := t.PutByte(csum[0]); err != nil {
			return err
		}
		if err := t.PutByte(csum[1]); err != nil {
			return err
		}

		reply, err := t.GetByte()
		if err != nil {
			return err
		}
		switch reply {
		case ack:
			return nil
		case nack:
			continue
		default:
			// Anything else is protocol noise (e.g. a stray Ctrl-C);
			// spec.md does not define this case, so treat it like a
			// NAK and retransmit rather than hanging forever.
			continue
		}
	}
}
