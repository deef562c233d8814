package transport

import (
	"bytes"
	"encoding/json"
)

// FrameDecoder reassembles newline-delimited JSON frames from arbitrarily
// split chunks. Blank lines are skipped. Lines that are not JSON objects with
// a non-empty "type" field are dropped and counted.
type FrameDecoder struct {
	buf     []byte
	dropped int
}

// NewFrameDecoder returns an empty decoder.
func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{}
}

// Feed appends a chunk and returns every frame completed by it, in order.
// A partial trailing line stays buffered until a later Feed or Flush.
func (d *FrameDecoder) Feed(chunk []byte) []Frame {
	d.buf = append(d.buf, chunk...)

	var frames []Frame
	start := 0
	for {
		idx := bytes.IndexByte(d.buf[start:], '\n')
		if idx < 0 {
			break
		}
		if f, ok := d.parse(d.buf[start : start+idx]); ok {
			frames = append(frames, f)
		}
		start += idx + 1
	}

	n := copy(d.buf, d.buf[start:])
	d.buf = d.buf[:n]
	return frames
}

// Flush parses whatever remains buffered as a final, unterminated frame.
func (d *FrameDecoder) Flush() []Frame {
	rest := d.buf
	d.buf = nil
	if f, ok := d.parse(rest); ok {
		return []Frame{f}
	}
	return nil
}

// Dropped reports how many malformed lines have been discarded.
func (d *FrameDecoder) Dropped() int {
	return d.dropped
}

// Buffered reports how many bytes are waiting for a newline.
func (d *FrameDecoder) Buffered() int {
	return len(d.buf)
}

func (d *FrameDecoder) parse(line []byte) (Frame, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Frame{}, false
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(line, &head); err != nil || head.Type == "" {
		d.dropped++
		return Frame{}, false
	}

	raw := make([]byte, len(line))
	copy(raw, line)
	return Frame{Type: head.Type, Raw: raw}, true
}
