package adc

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/sweeney/temp-indicator/internal/logic"
)

// DefaultBaudRate is the ADC bridge line speed.
const DefaultBaudRate = 115200

// maxLine bounds a bridge reply; anything longer is garbage on the line.
const maxLine = 32

// ErrTimeout is returned when a read timeout is configured and the bridge
// does not answer in time.
var ErrTimeout = errors.New("adc: read timeout")

// SerialSampler requests conversions from an ADC bridge over a serial line.
//
// Protocol, one request at a time:
//
//	host   -> "A<channel>\n"
//	bridge -> "<raw>\n"   decimal, 0..1023
//	bridge -> "E<text>\n" on a bridge-side error
//
// A reply abandoned by a timeout or a malformed line leaves bytes on the
// line; the next Sample discards through the next newline before sending,
// so replies always pair with their own request.
type SerialSampler struct {
	port    io.ReadWriteCloser
	timeout time.Duration
	buf     [1]byte
	stale   bool
}

// inputResetter is implemented by serial.Port.
type inputResetter interface {
	ResetInputBuffer() error
}

// OpenSerial opens the named serial port. With readTimeout 0 a Sample call
// blocks until the bridge answers, however long that takes.
func OpenSerial(name string, baudRate int, readTimeout time.Duration) (*SerialSampler, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	port, err := serial.Open(name, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}

	if readTimeout > 0 {
		if err := port.SetReadTimeout(readTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
		}
	}

	return NewSerialSampler(port, readTimeout), nil
}

// NewSerialSampler wraps an already open port. A non-zero timeout means the
// port returns zero-length reads when it expires.
func NewSerialSampler(port io.ReadWriteCloser, timeout time.Duration) *SerialSampler {
	return &SerialSampler{port: port, timeout: timeout}
}

// Sample requests one conversion and blocks until the reply arrives.
func (s *SerialSampler) Sample(ch logic.Channel) (logic.RawSample, error) {
	if s.stale {
		// A discard that times out gives the old reply up for lost.
		s.stale = false
		if err := s.discardLine(); err != nil {
			return 0, fmt.Errorf("resync: %w", err)
		}
	}
	if r, ok := s.port.(inputResetter); ok {
		if err := r.ResetInputBuffer(); err != nil {
			return 0, fmt.Errorf("reset input: %w", err)
		}
	}

	if _, err := fmt.Fprintf(s.port, "A%d\n", ch); err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}

	line, err := s.readLine()
	if err != nil {
		s.stale = true
		return 0, fmt.Errorf("read reply: %w", err)
	}

	if strings.HasPrefix(line, "E") {
		return 0, fmt.Errorf("bridge error: %s", strings.TrimSpace(line[1:]))
	}

	v, err := strconv.ParseUint(line, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("parse reply %q: %w", line, err)
	}
	if v > logic.MaxRaw {
		return 0, fmt.Errorf("reply %d out of range (max %d)", v, logic.MaxRaw)
	}

	return logic.RawSample(v), nil
}

func (s *SerialSampler) readLine() (string, error) {
	var line []byte
	for {
		n, err := s.port.Read(s.buf[:])
		if err != nil {
			return "", err
		}
		if n == 0 {
			if s.timeout > 0 {
				return "", ErrTimeout
			}
			continue
		}

		switch c := s.buf[0]; c {
		case '\n':
			return strings.TrimSpace(string(line)), nil
		default:
			if len(line) >= maxLine {
				return "", fmt.Errorf("reply longer than %d bytes", maxLine)
			}
			line = append(line, c)
		}
	}
}

// discardLine drops input up to and including the next newline.
func (s *SerialSampler) discardLine() error {
	for {
		n, err := s.port.Read(s.buf[:])
		if err != nil {
			return err
		}
		if n == 0 {
			if s.timeout > 0 {
				return ErrTimeout
			}
			continue
		}
		if s.buf[0] == '\n' {
			return nil
		}
	}
}

// Close closes the serial port.
func (s *SerialSampler) Close() error {
	return s.port.Close()
}
