package main

import (
	"bytes"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/kropptrevor/qoi-encoder/qoi"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a raw pixel file or a PNG/JPEG/GIF image to QOI",
	RunE:  runEncode,
}

func init() {
	encodeCmd.Flags().StringP("input", "i", "", "Input file (raw pixels with --raw, otherwise PNG, JPEG or GIF)")
	encodeCmd.Flags().StringP("output", "o", "", "Output QOI file")
	encodeCmd.Flags().Bool("raw", false, "Treat input as raw row-major pixels")
	encodeCmd.Flags().Uint32("width", 0, "Raw image width")
	encodeCmd.Flags().Uint32("height", 0, "Raw image height")
	encodeCmd.Flags().Uint8("channels", 0, "Channels, 3 or 4 (images default to 3 when opaque)")
	encodeCmd.Flags().Uint8("colorspace", 0, "Color space tag (0 sRGB, 1 linear)")
	encodeCmd.Flags().Bool("end-marker", true, "Append the end-of-stream marker")
	encodeCmd.Flags().Bool("zstd", false, "Wrap the output in a zstd frame")
	encodeCmd.Flags().BoolP("verbose", "v", false, "Print chunk statistics")
	encodeCmd.MarkFlagRequired("input")
	encodeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	raw, _ := cmd.Flags().GetBool("raw")
	width, _ := cmd.Flags().GetUint32("width")
	height, _ := cmd.Flags().GetUint32("height")
	channels, _ := cmd.Flags().GetUint8("channels")
	colorspace, _ := cmd.Flags().GetUint8("colorspace")
	endMarker, _ := cmd.Flags().GetBool("end-marker")
	useZstd, _ := cmd.Flags().GetBool("zstd")
	verbose, _ := cmd.Flags().GetBool("verbose")

	inputData, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	d := qoi.Descriptor{
		Width:      width,
		Height:     height,
		Channels:   qoi.Channels(channels),
		ColorSpace: qoi.ColorSpace(colorspace),
	}
	pix := inputData
	if !raw {
		d, pix, err = loadImage(inputData, d)
		if err != nil {
			return err
		}
	}

	var stats qoi.Stats
	opts := []qoi.Option{qoi.WithStats(&stats)}
	if endMarker {
		opts = append(opts, qoi.WithEndMarker())
	}
	buf, err := qoi.Encode(pix, d, opts...)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	defer buf.Release()

	data := buf.Bytes()
	if useZstd {
		data, err = compressZstd(data)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Encoded %s → %s\n", d, outputPath)
	fmt.Fprintf(out, "Input:  %d pixel bytes\n", len(pix))
	fmt.Fprintf(out, "Output: %d bytes (%.1f%%)\n", len(data), float64(len(data))/float64(len(pix))*100)
	if verbose {
		fmt.Fprintf(out, "Chunks: %s\n", stats)
	}

	return nil
}

// loadImage decodes an image file into raw pixels. A zero channel count in d
// picks 3 for opaque images and 4 otherwise.
func loadImage(data []byte, d qoi.Descriptor) (qoi.Descriptor, []byte, error) {
	m, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return d, nil, fmt.Errorf("decoding image: %w", err)
	}

	if d.Channels == 0 {
		d.Channels = qoi.ChannelsRGBA
		if o, ok := m.(interface{ Opaque() bool }); ok && o.Opaque() {
			d.Channels = qoi.ChannelsRGB
		}
	}
	if d.Channels != qoi.ChannelsRGB && d.Channels != qoi.ChannelsRGBA {
		return d, nil, fmt.Errorf("%s image: %w", format, qoi.ErrInvalidChannels)
	}

	rect := m.Bounds()
	d.Width = uint32(rect.Dx())
	d.Height = uint32(rect.Dy())
	return d, qoi.Pixels(m, d.Channels), nil
}
