// Package qoi encodes raw RGB and RGBA pixel buffers into the
// "Quite OK Image" byte stream.
package qoi

import (
	"encoding/binary"
	"fmt"
)

type Channels uint8

const (
	ChannelsRGB  Channels = 3
	ChannelsRGBA Channels = 4
)

type ColorSpace uint8

const (
	// ColorSpaceSRGB is sRGB color with linear alpha.
	ColorSpaceSRGB ColorSpace = 0
	// ColorSpaceLinear means every channel is linear.
	ColorSpaceLinear ColorSpace = 1
)

const (
	TagIndex byte = 0b00000000
	TagDiff  byte = 0b01000000
	TagLuma  byte = 0b10000000
	TagRun   byte = 0b11000000
	TagRGB   byte = 0b11111110
	TagRGBA  byte = 0b11111111

	// HeaderSize is the fixed length of the stream header.
	HeaderSize = 14

	// MaxRun is the longest run a single run chunk can hold. The chunk
	// stores run-1, so 62 and 63 never appear and cannot be confused with
	// TagRGB and TagRGBA.
	MaxRun = 62

	cacheSize = 64
)

var (
	magic     = [4]byte{'q', 'o', 'i', 'f'}
	endMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}
)

// Descriptor describes the pixel buffer handed to Encode.
type Descriptor struct {
	Width      uint32
	Height     uint32
	Channels   Channels
	ColorSpace ColorSpace
}

// rawSize is only meaningful once Validate has accepted d.
func (d Descriptor) rawSize() uint64 {
	return uint64(d.Width) * uint64(d.Height) * uint64(d.Channels)
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%dx%d channels=%d colorspace=%d", d.Width, d.Height, d.Channels, d.ColorSpace)
}

func appendHeader(dst []byte, d Descriptor) []byte {
	dst = append(dst, magic[:]...)
	dst = binary.BigEndian.AppendUint32(dst, d.Width)
	dst = binary.BigEndian.AppendUint32(dst, d.Height)
	dst = append(dst, byte(d.Channels), byte(d.ColorSpace))
	return dst
}

// ParseHeader reads the descriptor back out of the first HeaderSize bytes of
// an encoded stream. The chunk stream is not inspected.
func ParseHeader(b []byte) (Descriptor, error) {
	if len(b) < HeaderSize {
		return Descriptor{}, fmt.Errorf("%w: need %d bytes, got %d", ErrParseHeader, HeaderSize, len(b))
	}
	if [4]byte(b[:4]) != magic {
		return Descriptor{}, fmt.Errorf("%w: bad magic %q", ErrParseHeader, b[:4])
	}
	d := Descriptor{
		Width:      binary.BigEndian.Uint32(b[4:8]),
		Height:     binary.BigEndian.Uint32(b[8:12]),
		Channels:   Channels(b[12]),
		ColorSpace: ColorSpace(b[13]),
	}
	if err := validateDescriptor(d); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrParseHeader, err)
	}
	return d, nil
}

// rgba holds one pixel. Three channel pixels keep A at zero, so the alpha
// term drops out of the hash.
type rgba struct {
	R byte
	G byte
	B byte
	A byte
}

func pixelAt(px []byte) rgba {
	p := rgba{R: px[0], G: px[1], B: px[2]}
	if len(px) == 4 {
		p.A = px[3]
	}
	return p
}

// index wraps at 256 before the modulo, which gives the same slot as
// unbounded arithmetic because 64 divides 256.
func (p rgba) index() int {
	return int((p.R*3 + p.G*5 + p.B*7 + p.A*11) % cacheSize)
}

// Hash returns the color cache slot for a 3 or 4 byte pixel. Any other
// length is rejected with ErrInvalidChannels.
func Hash(px []byte) (uint8, error) {
	if len(px) != int(ChannelsRGB) && len(px) != int(ChannelsRGBA) {
		return 0, ErrInvalidChannels
	}
	return uint8(pixelAt(px).index()), nil
}

type colorCache struct {
	slots [cacheSize]rgba
	used  [cacheSize]bool
}

func (c *colorCache) lookup(index int) (rgba, bool) {
	return c.slots[index], c.used[index]
}

func (c *colorCache) store(p rgba) {
	i := p.index()
	c.slots[i] = p
	c.used[i] = true
}
