package utils

import (
	"bufio"
	"bytes"
	"io"
	"sync"
)

// BufferPool recycles page-sized bytes.Buffers.
type BufferPool struct {
	pool sync.Pool
}

func NewBufferPool() *BufferPool {
	p := &BufferPool{}
	p.pool.New = func() any { return new(bytes.Buffer) }
	return p
}

func (p *BufferPool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

// Put hands buf back empty. A buffer that grew beyond MaxBufferSize is left
// for the garbage collector.
func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf.Cap() > MaxBufferSize {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

// BufioWriterPool recycles MaxBufferSize writers for rendered pages.
type BufioWriterPool struct {
	pool sync.Pool
}

func NewBufioWriterPool() *BufioWriterPool {
	p := &BufioWriterPool{}
	p.pool.New = func() any { return bufio.NewWriterSize(nil, MaxBufferSize) }
	return p
}

// Get returns a writer pointed at w.
func (p *BufioWriterPool) Get(w io.Writer) *bufio.Writer {
	bw := p.pool.Get().(*bufio.Writer)
	bw.Reset(w)
	return bw
}

// Put detaches bw from its target. Flush before calling it; unflushed bytes
// are discarded.
func (p *BufioWriterPool) Put(bw *bufio.Writer) {
	bw.Reset(nil)
	p.pool.Put(bw)
}

var (
	SharedBufferPool      = NewBufferPool()
	SharedBufioWriterPool = NewBufioWriterPool()
)
