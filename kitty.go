package texcat

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
)

const (
	kittyStart = "\x1b_G"
	kittyEnd   = "\x1b\\"
	// Maximum encoded payload bytes per escape sequence, mandated by the
	// kitty graphics protocol.
	kittyChunkSize = 4096
)

// TransportMode selects the payload encoding for image transmission.
type TransportMode uint8

const (
	// TransportPNG sends the raster as PNG (format code 100).
	TransportPNG TransportMode = iota
	// TransportRGBA sends raw 32-bit RGBA pixels (format code 32).
	TransportRGBA
)

// Encoder frames raster images into chunked kitty graphics escape
// sequences and writes them to the output stream. Image ids are unique and
// monotonically increasing within one Encoder; they are never reused.
type Encoder struct {
	w         io.Writer
	mode      TransportMode
	chunkSize int
	nextID    uint32
}

// NewEncoder returns an encoder writing kitty graphics sequences to w.
func NewEncoder(w io.Writer, mode TransportMode) *Encoder {
	return &Encoder{w: w, mode: mode, chunkSize: kittyChunkSize, nextID: 1}
}

// Transmit writes img as a transmit-and-display sequence anchored at the
// current cursor cell. yOffsetPx shifts the image down within that cell.
// The cursor is not moved by the terminal (C=1). Returns the image id
// assigned to the transmission.
func (e *Encoder) Transmit(img *RasterImage, yOffsetPx int) (uint32, error) {
	id := e.nextID
	e.nextID++

	var ctrl string
	var payload []byte
	switch e.mode {
	case TransportRGBA:
		ctrl = fmt.Sprintf("a=T,f=32,s=%d,v=%d,i=%d,C=1,q=2", img.Width(), img.Height(), id)
		payload = rgbaBytes(img)
	default:
		ctrl = fmt.Sprintf("a=T,f=100,i=%d,C=1,q=2", id)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img.Image); err != nil {
			return id, fmt.Errorf("encode png: %w", err)
		}
		payload = buf.Bytes()
	}
	if yOffsetPx > 0 {
		ctrl += fmt.Sprintf(",Y=%d", yOffsetPx)
	}

	if err := e.writeChunks(ctrl, payload); err != nil {
		return id, err
	}
	return id, nil
}

// writeChunks base64-encodes payload and emits it in escape sequences of at
// most chunkSize encoded bytes. The first sequence carries the control
// data; every sequence carries m=1 except the last, which carries m=0.
// Chunk boundaries are pure framing: decoding the concatenated payloads
// reconstructs the encoded stream byte for byte.
func (e *Encoder) writeChunks(ctrl string, payload []byte) error {
	enc := base64.StdEncoding.EncodeToString(payload)
	size := e.chunkSize
	if size <= 0 {
		size = kittyChunkSize
	}

	for i := 0; ; i += size {
		end := i + size
		if end > len(enc) {
			end = len(enc)
		}
		more := 0
		if end < len(enc) {
			more = 1
		}
		var seq string
		if i == 0 {
			seq = fmt.Sprintf("%s%s,m=%d;%s%s", kittyStart, ctrl, more, enc[i:end], kittyEnd)
		} else {
			seq = fmt.Sprintf("%sm=%d;%s%s", kittyStart, more, enc[i:end], kittyEnd)
		}
		if _, err := io.WriteString(e.w, seq); err != nil {
			return fmt.Errorf("write graphics chunk: %w", err)
		}
		if end == len(enc) {
			return nil
		}
	}
}

// rgbaBytes returns the raster's pixels as tightly packed RGBA rows.
func rgbaBytes(img *RasterImage) []byte {
	n := img.Image
	w, h := img.Width(), img.Height()
	if n.Stride == 4*w {
		return n.Pix[:4*w*h]
	}
	out := make([]byte, 0, 4*w*h)
	for y := 0; y < h; y++ {
		row := n.Pix[y*n.Stride : y*n.Stride+4*w]
		out = append(out, row...)
	}
	return out
}
