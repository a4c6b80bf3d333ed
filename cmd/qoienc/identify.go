package main

import (
	"fmt"
	"os"

	"github.com/kropptrevor/qoi-encoder/qoi"
	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Print the header of a QOI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	stream, err := maybeDecompressZstd(data)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	d, err := qoi.ParseHeader(stream)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:        %s\n", path)
	fmt.Fprintf(out, "Dimensions:  %d x %d\n", d.Width, d.Height)
	fmt.Fprintf(out, "Channels:    %d\n", d.Channels)
	fmt.Fprintf(out, "Color space: %s\n", colorSpaceName(d.ColorSpace))
	fmt.Fprintf(out, "File size:   %d bytes\n", len(data))
	if len(stream) != len(data) {
		fmt.Fprintf(out, "Stream size: %d bytes (zstd)\n", len(stream))
	}

	return nil
}

func colorSpaceName(cs qoi.ColorSpace) string {
	switch cs {
	case qoi.ColorSpaceSRGB:
		return "sRGB with linear alpha"
	case qoi.ColorSpaceLinear:
		return "linear"
	}
	return fmt.Sprintf("unknown (%d)", cs)
}
