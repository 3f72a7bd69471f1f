// Command simstub is a host-side development harness for the engine: it
// links the engine and the decoder against the in-process fake CPU of
// internal/simcpu and a real or pseudo-terminal serial port, so the
// protocol can be exercised end to end without RX hardware. It is not
// part of the on-target image.
package main

import (
	"fmt"
	"log"
	"os"

	serial "github.com/daedaluz/goserial"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/msalau/rx-gdb-stub/config"
	"github.com/msalau/rx-gdb-stub/engine"
	"github.com/msalau/rx-gdb-stub/internal/simcpu"
	"github.com/msalau/rx-gdb-stub/isr"
	"github.com/msalau/rx-gdb-stub/packet"
	"github.com/msalau/rx-gdb-stub/regs"
)

var (
	portName     string
	baud         uint32
	debug        bool
	ramSize      int
	holdBreak    bool
	releaseBreak bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "simstub",
	Short: "Host-side simulator for the RX debug stub engine",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Open a serial port and run the engine against a simulated CPU",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	serveCmd.Flags().StringVar(&portName, "port", "/dev/ttyUSB0", "serial device or PTY path")
	serveCmd.Flags().Uint32Var(&baud, "baud", 38400, "baud rate")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "enable engine diagnostic logging")
	serveCmd.Flags().IntVar(&ramSize, "ram", 1<<20, "simulated RAM size in bytes")
	breakCmd.Flags().BoolVar(&holdBreak, "hold", false, "assert a sustained BREAK condition instead of a short pulse")
	breakCmd.Flags().BoolVar(&releaseBreak, "release", false, "release a BREAK condition previously asserted with --hold")
	rootCmd.AddCommand(serveCmd, breakCmd)
}

// breakCmd's default pulse goes through goserial's own termios-based
// SendBreak. --hold/--release instead assert or clear the line directly
// via TIOCSBRK/TIOCCBRK on the port's file descriptor, the same raw
// ioctl-on-an-open-fd shape the teacher's tap_device.go uses for
// TUNSETIFF, for the case where a target's bootloader needs BREAK held
// across a longer reset sequence than a pulse covers.
var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Send or hold a BREAK condition on an already-open port (debugging aid)",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, err := serial.Open(portName, serial.NewOptions())
		if err != nil {
			return err
		}
		defer port.Close()

		switch {
		case holdBreak:
			return unix.IoctlSetInt(port.Fd(), unix.TIOCSBRK, 0)
		case releaseBreak:
			return unix.IoctlSetInt(port.Fd(), unix.TIOCCBRK, 0)
		default:
			return port.SendBreak(0)
		}
	},
}

func serve() error {
	opts := serial.NewOptions()
	port, err := serial.Open(portName, opts)
	if err != nil {
		return fmt.Errorf("simstub: open %s: %w", portName, err)
	}
	defer port.Close()

	cpu := simcpu.New(ramSize)
	cfg := config.Default()
	cfg.BaudRate = baud

	e := &engine.Engine{
		Mem:       cpu.Mem,
		Transport: &portTransport{port: port},
		Buf:       packet.NewBuffer(cfg.BufferSize),
		Cfg:       cfg,
		RAMEnd:    uint32(ramSize),
		Debug:     debug,
		Log:       func(format string, args ...any) { fmt.Fprintf(os.Stderr, format+"\n", args...) },
	}

	var f regs.File
	e.Regs = &f

	// A real target loops here forever, re-entering on every trap/break.
	// The simulator handles a single stop: it exits once the host resumes
	// the target with 'c' or 's', or when the port fails.
	isr.BreakpointTrap(cpu.Bank, e)
	return nil
}

// portTransport adapts a *serial.Port to transport.Transport, the same
// narrow blocking get/put-byte contract the real UART driver would
// implement on target.
type portTransport struct {
	port *serial.Port
}

func (t *portTransport) GetByte() (byte, error) {
	var b [1]byte
	for {
		n, err := t.port.Read(b[:])
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return b[0], nil
		}
	}
}

func (t *portTransport) PutByte(b byte) error {
	_, err := t.port.Write([]byte{b})
	return err
}
