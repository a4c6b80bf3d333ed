package qoi

import (
	"fmt"
	"math/bits"
)

// Validate checks pix and d in a fixed order: null buffer, dimensions,
// channels, color space, then buffer length. The first failure wins.
func Validate(pix []byte, d Descriptor) error {
	if pix == nil {
		return ErrNullBuffer
	}
	if err := validateDescriptor(d); err != nil {
		return err
	}
	hi, want := bits.Mul64(uint64(d.Width)*uint64(d.Height), uint64(d.Channels))
	if hi != 0 {
		return fmt.Errorf("%w: %dx%dx%d overflows", ErrInvalidLength, d.Width, d.Height, d.Channels)
	}
	if uint64(len(pix)) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(pix), want)
	}
	return nil
}

func validateDescriptor(d Descriptor) error {
	if d.Width == 0 || d.Height == 0 {
		return ErrInvalidDimensions
	}
	if d.Channels != ChannelsRGB && d.Channels != ChannelsRGBA {
		return ErrInvalidChannels
	}
	if d.ColorSpace != ColorSpaceSRGB && d.ColorSpace != ColorSpaceLinear {
		return ErrInvalidColorSpace
	}
	return nil
}
