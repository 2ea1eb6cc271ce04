// Package ppm reads and writes binary netpbm pixmaps (P6).
//
// A P6 file is the magic "P6", whitespace separated width, height and maxval
// tokens (comments starting with '#' run to end of line), exactly one
// whitespace byte, then width*height RGB triples in row-major order. Samples
// are one byte when maxval < 256, two bytes big-endian otherwise.
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/hupe1980/picset/photo"
)

// Magic is the P6 header marker.
const Magic = "P6"

// MaxVal8 and MaxVal16 are the maxval written for 8-bit and 16-bit rasters.
const (
	MaxVal8  = 255
	MaxVal16 = 65535
)

var (
	// ErrBadMagic is returned when the stream does not start with Magic.
	ErrBadMagic = errors.New("ppm: bad magic")
	// ErrMalformedHeader is returned for unparsable or out-of-range header fields.
	ErrMalformedHeader = errors.New("ppm: malformed header")
	// ErrTruncated is returned when the raster ends before width*height pixels.
	ErrTruncated = errors.New("ppm: truncated pixel data")
	// ErrSampleRange is returned when a sample does not fit the target type or format.
	ErrSampleRange = errors.New("ppm: sample out of range")
)

// Header is the parsed P6 header.
type Header struct {
	Width  int
	Height int
	MaxVal int
}

// BytesPerSample returns 1 for 8-bit rasters and 2 for 16-bit rasters.
func (h Header) BytesPerSample() int {
	if h.MaxVal < 256 {
		return 1
	}
	return 2
}

// ReadHeader parses the header and leaves br positioned at the first raster byte.
func ReadHeader(br *bufio.Reader) (Header, error) {
	magic, err := token(br)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrBadMagic, err)
	}
	if magic != Magic {
		return Header{}, fmt.Errorf("%w: %q", ErrBadMagic, magic)
	}

	var fields [3]int
	for i, name := range []string{"width", "height", "maxval"} {
		tok, err := token(br)
		if err != nil {
			return Header{}, fmt.Errorf("%w: %s: %w", ErrMalformedHeader, name, err)
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v <= 0 {
			return Header{}, fmt.Errorf("%w: %s %q", ErrMalformedHeader, name, tok)
		}
		fields[i] = v
	}
	h := Header{Width: fields[0], Height: fields[1], MaxVal: fields[2]}
	if h.MaxVal > MaxVal16 {
		return Header{}, fmt.Errorf("%w: maxval %d", ErrMalformedHeader, h.MaxVal)
	}

	// Exactly one whitespace byte separates the header from the raster.
	c, err := br.ReadByte()
	if err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	if !isSpace(c) {
		return Header{}, fmt.Errorf("%w: missing raster separator", ErrMalformedHeader)
	}
	return h, nil
}

// maxPrealloc bounds the sample buffer allocated from the header alone.
// Larger rasters grow as bytes arrive, so a lying header cannot force a
// huge allocation.
const maxPrealloc = 1 << 20

// RasterBytes returns the size of the pixel data the header announces.
func (h Header) RasterBytes() (int64, error) {
	total := h.Width
	for _, f := range []int{h.Height, photo.ChannelWidth, h.BytesPerSample()} {
		if total > math.MaxInt/f {
			return 0, fmt.Errorf("%w: %dx%d overflows", ErrMalformedHeader, h.Width, h.Height)
		}
		total *= f
	}
	return int64(total), nil
}

// Decode reads a P6 image into a Photo identified by id.
func Decode[T photo.Sample](r io.Reader, id string) (*photo.Photo[T], error) {
	return DecodeSized[T](r, id, -1)
}

// DecodeSized is Decode for a stream of size bytes. A header announcing more
// raster data than the stream holds fails with ErrTruncated before any pixel
// is read. A negative size skips the check.
func DecodeSized[T photo.Sample](r io.Reader, id string, size int64) (*photo.Photo[T], error) {
	cr := &countingReader{r: r}
	br := bufio.NewReader(cr)
	h, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}

	raster, err := h.RasterBytes()
	if err != nil {
		return nil, err
	}
	if size >= 0 {
		if rest := size - (cr.n - int64(br.Buffered())); raster > rest {
			return nil, fmt.Errorf("%w: header announces %d raster bytes, %d remain", ErrTruncated, raster, rest)
		}
	}

	bps := h.BytesPerSample()
	n := int(raster) / bps
	samples := make([]T, 0, min(n, maxPrealloc))
	buf := make([]byte, 64*1024)
	buf = buf[:len(buf)-len(buf)%bps]
	for len(samples) < n {
		want := min(len(buf), (n-len(samples))*bps)
		if _, err := io.ReadFull(br, buf[:want]); err != nil {
			return nil, fmt.Errorf("%w: got %d of %d samples", ErrTruncated, len(samples), n)
		}
		for off := 0; off < want; off += bps {
			v := int64(buf[off])
			if bps == 2 {
				v = v<<8 | int64(buf[off+1])
			}
			s := T(v)
			if int64(s) != v {
				return nil, fmt.Errorf("%w: %d at sample %d", ErrSampleRange, v, len(samples))
			}
			samples = append(samples, s)
		}
	}

	return photo.New(id, h.Width, h.Height, samples)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Encode writes p as P6. The maxval is MaxVal8 when every sample fits a byte
// and MaxVal16 otherwise. Negative samples or samples above MaxVal16 fail with
// ErrSampleRange before anything is written.
func Encode[T photo.Sample](w io.Writer, p *photo.Photo[T]) error {
	maxVal := MaxVal8
	for i, s := range p.Samples() {
		v := int64(s)
		if v < 0 || v > MaxVal16 {
			return fmt.Errorf("%w: %d at sample %d", ErrSampleRange, v, i)
		}
		if v > MaxVal8 {
			maxVal = MaxVal16
		}
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n%d\n", Magic, p.Width(), p.Height(), maxVal); err != nil {
		return err
	}
	for _, s := range p.Samples() {
		var err error
		if maxVal == MaxVal8 {
			err = bw.WriteByte(byte(s))
		} else {
			if err = bw.WriteByte(byte(uint16(s) >> 8)); err == nil {
				err = bw.WriteByte(byte(s))
			}
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// token returns the next whitespace-delimited header token, skipping comments.
func token(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		c, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			if err == io.EOF {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		switch {
		case c == '#' && len(tok) == 0:
			if _, err := br.ReadString('\n'); err != nil {
				return "", io.ErrUnexpectedEOF
			}
		case isSpace(c):
			if len(tok) > 0 {
				return string(tok), br.UnreadByte()
			}
		default:
			tok = append(tok, c)
			if len(tok) > 32 {
				return "", errors.New("token too long")
			}
		}
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
