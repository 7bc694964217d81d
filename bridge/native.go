package bridge

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Host speaks the browser native messaging protocol: each message is a
// 4-byte little-endian length prefix followed by that many bytes of
// JSON. The browser closes stdin to shut the host down.
type Host struct {
	d          *Dispatcher
	in         io.Reader
	out        io.Writer
	logger     *slog.Logger
	maxMessage int

	writeMu sync.Mutex
}

// NewHost creates a Host reading envelopes from in and writing
// responses to out (normally os.Stdin / os.Stdout).
func NewHost(d *Dispatcher, in io.Reader, out io.Writer, cfg *Config, logger *slog.Logger) *Host {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		d:          d,
		in:         in,
		out:        out,
		logger:     logger,
		maxMessage: cfg.MaxMessageBytes,
	}
}

// Run reads envelopes until EOF. Messages are handled one at a time:
// the engine serializes anyway, and ordered responses keep the
// extension side simple. Returns nil on clean EOF.
func (h *Host) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		payload, err := h.readFrame()
		if errors.Is(err, io.EOF) {
			h.logger.Info("bridge: native host input closed")
			return nil
		}
		if err != nil {
			return err
		}

		resp := h.d.Dispatch(ctx, payload)
		if err := h.Write(resp); err != nil {
			return fmt.Errorf("bridge: write response: %w", err)
		}
	}
}

func (h *Host) readFrame() ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(h.in, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	size := int(binary.LittleEndian.Uint32(header[:]))
	if size > h.maxMessage {
		return nil, &FrameTooLargeError{Size: size, Max: h.maxMessage}
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(h.in, payload); err != nil {
		return nil, fmt.Errorf("bridge: read frame body: %w", err)
	}
	return payload, nil
}

// Write frames and writes one message. Safe for concurrent use: writes
// are serialized so frames never interleave on the pipe.
func (h *Host) Write(msg []byte) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(msg)))
	if _, err := h.out.Write(header[:]); err != nil {
		return err
	}
	_, err := h.out.Write(msg)
	return err
}
