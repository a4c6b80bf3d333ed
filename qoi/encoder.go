package qoi

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

type options struct {
	endMarker bool
	stats     *Stats
}

type Option func(*options)

// WithEndMarker appends the 8 byte end-of-stream marker most decoders
// expect after the last chunk.
func WithEndMarker() Option {
	return func(o *options) {
		o.endMarker = true
	}
}

// WithStats fills s with the chunk counts of the encode.
func WithStats(s *Stats) Option {
	return func(o *options) {
		o.stats = s
	}
}

// Encode validates pix against d and encodes it. On failure the returned
// Buffer is nil and the error carries one of the Code values.
func Encode(pix []byte, d Descriptor, opts ...Option) (*Buffer, error) {
	if err := Validate(pix, d); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	stats := o.stats
	if stats == nil {
		stats = &Stats{}
	}
	*stats = Stats{}

	size := HeaderSize + int(d.rawSize())
	if o.endMarker {
		size += len(endMarker)
	}
	e := encoder{
		out:      appendHeader(getBuffer(size), d),
		channels: d.Channels,
		stats:    stats,
	}

	n := int(d.Channels)
	e.writeFirst(pixelAt(pix[:n]))
	for i := n; i < len(pix); i += n {
		e.writeChunk(pixelAt(pix[i : i+n]))
	}

	if e.runLength > 0 {
		e.writeRunChunk()
	}

	if o.endMarker {
		e.out = append(e.out, endMarker[:]...)
	}

	return &Buffer{data: e.out}, nil
}

// Write encodes pix and writes the stream to w, returning the bytes written.
func Write(w io.Writer, pix []byte, d Descriptor, opts ...Option) (int, error) {
	buf, err := Encode(pix, d, opts...)
	if err != nil {
		return 0, err
	}
	defer buf.Release()

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return n, fmt.Errorf("writing stream: %w", err)
	}
	return n, nil
}

// EncodeImage encodes m as an sRGB stream with ch channels and writes it to
// w with the end marker.
func EncodeImage(w io.Writer, m image.Image, ch Channels) error {
	rect := m.Bounds()
	d := Descriptor{
		Width:      uint32(rect.Dx()),
		Height:     uint32(rect.Dy()),
		Channels:   ch,
		ColorSpace: ColorSpaceSRGB,
	}
	if err := validateDescriptor(d); err != nil {
		return err
	}

	_, err := Write(w, Pixels(m, ch), d, WithEndMarker())
	return err
}

// Pixels flattens m into row-major non-premultiplied bytes with ch channels
// per pixel. Three channel output drops alpha.
func Pixels(m image.Image, ch Channels) []byte {
	rect := m.Bounds()
	pix := make([]byte, 0, rect.Dx()*rect.Dy()*int(ch))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			p := newRGBA(m.At(x, y))
			pix = append(pix, p.R, p.G, p.B)
			if ch == ChannelsRGBA {
				pix = append(pix, p.A)
			}
		}
	}
	return pix
}

func newRGBA(c color.Color) rgba {
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	return rgba{
		R: nrgba.R,
		G: nrgba.G,
		B: nrgba.B,
		A: nrgba.A,
	}
}

type encoder struct {
	out       []byte
	channels  Channels
	cache     colorCache
	prev      rgba
	runLength byte
	stats     *Stats
}

func (e *encoder) writeFirst(pixel rgba) {
	if e.channels == ChannelsRGBA {
		e.writeRGBAChunk(pixel)
	} else {
		e.writeRGBChunk(pixel)
	}
	e.cache.store(pixel)
	e.prev = pixel
	e.stats.Pixels++
}

func diff(prev rgba, next rgba) (byte, byte, byte) {
	dr := next.R - prev.R + 2
	dg := next.G - prev.G + 2
	db := next.B - prev.B + 2
	return dr, dg, db
}

func diffLuma(prev rgba, next rgba) (dg byte, drdg byte, dbdg byte) {
	dg = next.G - prev.G + 32
	drdg = (next.R - prev.R) - (next.G - prev.G) + 8
	dbdg = (next.B - prev.B) - (next.G - prev.G) + 8
	return
}

func isSmallDiff(diff byte) bool {
	return diff <= 3
}

func isSmallLumaDiff(dg, drdg, dbdg byte) bool {
	return dg <= 63 && drdg <= 15 && dbdg <= 15
}

func (e *encoder) writeChunk(pixel rgba) {
	e.stats.Pixels++

	if pixel == e.prev {
		e.runLength++
		if e.runLength == MaxRun {
			e.writeRunChunk()
		}
		return
	}

	if e.runLength > 0 {
		e.writeRunChunk()
	}

	index := pixel.index()
	if cached, ok := e.cache.lookup(index); ok && cached == pixel {
		e.writeIndexChunk(index)
		e.prev = pixel
		return
	}

	e.cache.store(pixel)
	e.writeDelta(pixel)
	e.prev = pixel
}

func (e *encoder) writeDelta(pixel rgba) {
	// Alpha cannot change through diff, luma or RGB chunks.
	if e.channels == ChannelsRGBA && pixel.A != e.prev.A {
		e.writeRGBAChunk(pixel)
		return
	}

	dr, dg, db := diff(e.prev, pixel)
	if isSmallDiff(dr) && isSmallDiff(dg) && isSmallDiff(db) {
		e.writeDiffChunk(dr, dg, db)
		return
	}

	dgLuma, drdg, dbdg := diffLuma(e.prev, pixel)
	if isSmallLumaDiff(dgLuma, drdg, dbdg) {
		e.writeLumaChunk(dgLuma, drdg, dbdg)
		return
	}

	e.writeRGBChunk(pixel)
}

func (e *encoder) writeRGBChunk(pixel rgba) {
	e.out = append(e.out, TagRGB, pixel.R, pixel.G, pixel.B)
	e.stats.RGB++
}

func (e *encoder) writeRGBAChunk(pixel rgba) {
	e.out = append(e.out, TagRGBA, pixel.R, pixel.G, pixel.B, pixel.A)
	e.stats.RGBA++
}

func (e *encoder) writeIndexChunk(index int) {
	e.out = append(e.out, TagIndex|byte(index))
	e.stats.Index++
}

func (e *encoder) writeDiffChunk(dr byte, dg byte, db byte) {
	chunk := TagDiff
	chunk |= dr << 4
	chunk |= dg << 2
	chunk |= db
	e.out = append(e.out, chunk)
	e.stats.Diff++
}

func (e *encoder) writeLumaChunk(dg byte, drdg byte, dbdg byte) {
	first := TagLuma
	first |= dg
	second := drdg<<4 | dbdg
	e.out = append(e.out, first, second)
	e.stats.Luma++
}

func (e *encoder) writeRunChunk() {
	e.out = append(e.out, TagRun|(e.runLength-1))
	e.runLength = 0
	e.stats.Run++
}
