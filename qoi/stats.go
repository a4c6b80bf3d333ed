package qoi

import "fmt"

// Stats counts the chunks emitted by one encode.
type Stats struct {
	Pixels uint64
	Index  uint64
	Diff   uint64
	Luma   uint64
	Run    uint64
	RGB    uint64
	RGBA   uint64
}

// Chunks is the total number of chunks emitted.
func (s Stats) Chunks() uint64 {
	return s.Index + s.Diff + s.Luma + s.Run + s.RGB + s.RGBA
}

// StreamSize is the encoded length implied by the counts, header included
// and end marker excluded.
func (s Stats) StreamSize() uint64 {
	return HeaderSize + s.Index + s.Diff + 2*s.Luma + s.Run + 4*s.RGB + 5*s.RGBA
}

func (s Stats) String() string {
	return fmt.Sprintf("pixels=%d index=%d diff=%d luma=%d run=%d rgb=%d rgba=%d",
		s.Pixels, s.Index, s.Diff, s.Luma, s.Run, s.RGB, s.RGBA)
}
