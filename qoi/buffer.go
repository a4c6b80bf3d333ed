package qoi

import "sync"

// bufferPool recycles output backing arrays handed back through Release.
var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 4<<10)
		return &b
	},
}

func getBuffer(size int) []byte {
	bp := bufferPool.Get().(*[]byte)
	if cap(*bp) < size {
		bufferPool.Put(bp)
		return make([]byte, 0, size)
	}
	return (*bp)[:0]
}

func putBuffer(b []byte) {
	if cap(b) == 0 {
		return
	}
	b = b[:0]
	bufferPool.Put(&b)
}

// Buffer is an encoded stream owned by the caller until Release or Detach.
// The encoder keeps no reference to it after Encode returns.
type Buffer struct {
	data []byte
}

func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Release returns the storage for reuse by later encodes. Bytes must not be
// used afterwards. Releasing a nil, empty or already released Buffer does
// nothing.
func (b *Buffer) Release() {
	if b == nil || b.data == nil {
		return
	}
	putBuffer(b.data)
	b.data = nil
}

// Detach hands the encoded bytes to the caller for good. The storage is
// never recycled and the Buffer is left empty.
func (b *Buffer) Detach() []byte {
	if b == nil {
		return nil
	}
	data := b.data
	b.data = nil
	return data
}

// Release is the free-standing form of (*Buffer).Release.
func Release(b *Buffer) {
	b.Release()
}
