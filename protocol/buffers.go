package protocol

// InputBuffer is the byte source a FrameDecoder consumes frames from.
type InputBuffer interface {
	// Data returns every unconsumed byte, oldest first.
	Data() []byte
	Available() int
	// Pop drops n bytes that have been decoded or skipped.
	Pop(n int)
}

// OutputBuffer is the sink a FrameEncoder builds a frame in. The encoder
// reserves the length byte, writes the payload, then patches the length
// and appends the checksum over DataSince(start).
type OutputBuffer interface {
	Output(data []byte)
	CurPosition() int
	Update(pos int, val byte)
	DataSince(pos int) []byte
}

// SliceInputBuffer decodes from a captured stream held in memory.
type SliceInputBuffer struct {
	data []byte
}

func NewSliceInputBuffer(data []byte) *SliceInputBuffer {
	return &SliceInputBuffer{data: data}
}

func (s *SliceInputBuffer) Data() []byte   { return s.data }
func (s *SliceInputBuffer) Available() int { return len(s.data) }

func (s *SliceInputBuffer) Pop(n int) {
	if n > len(s.data) {
		n = len(s.data)
	}
	s.data = s.data[n:]
}

// ScratchOutput is a fixed scratch area for encoding one or more frames
// before they are queued. Output past MessageMax is truncated.
type ScratchOutput struct {
	buf [MessageMax]byte
	pos int
}

func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

func (s *ScratchOutput) Output(data []byte) {
	s.pos += copy(s.buf[s.pos:], data)
}

func (s *ScratchOutput) CurPosition() int {
	return s.pos
}

func (s *ScratchOutput) Update(pos int, val byte) {
	if pos < s.pos {
		s.buf[pos] = val
	}
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Result returns everything encoded since the last Reset.
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

func (s *ScratchOutput) Reset() {
	s.pos = 0
}

// FifoBuffer is the ring between producer and consumer of the telemetry
// stream: encoded frames waiting for USB on the firmware, received bytes
// waiting for the decoder on the host. It implements InputBuffer.
// One slot stays empty to tell full from empty, so a FIFO created with
// capacity n holds n-1 bytes.
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
}

func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{buf: make([]byte, capacity)}
}

// Write queues as much of data as fits and returns the count queued.
func (f *FifoBuffer) Write(data []byte) int {
	n := len(data)
	if free := f.Free(); n > free {
		n = free
	}
	first := copy(f.buf[f.write:], data[:n])
	copy(f.buf, data[first:n])
	f.write = (f.write + n) % len(f.buf)
	return n
}

func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return len(f.buf) - f.read + f.write
}

func (f *FifoBuffer) Free() int {
	return len(f.buf) - f.Available() - 1
}

// Data returns the queued bytes. Contiguous data is returned in place;
// wrapped data is copied so the decoder always sees one slice.
func (f *FifoBuffer) Data() []byte {
	if f.read <= f.write {
		return f.buf[f.read:f.write]
	}
	out := make([]byte, 0, f.Available())
	out = append(out, f.buf[f.read:]...)
	return append(out, f.buf[:f.write]...)
}

// Pop drops up to n bytes from the front.
func (f *FifoBuffer) Pop(n int) {
	if avail := f.Available(); n > avail {
		n = avail
	}
	f.read = (f.read + n) % len(f.buf)
}

func (f *FifoBuffer) IsEmpty() bool {
	return f.read == f.write
}

func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}
