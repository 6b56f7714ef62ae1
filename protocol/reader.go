package protocol

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// ErrReaderClosed is returned by Receive once the stream has ended.
var ErrReaderClosed = errors.New("protocol: reader closed")

// FrameReader decodes frames from a stream on a background goroutine.
type FrameReader struct {
	port        io.ReadCloser
	decoder     *FrameDecoder
	inputBuffer *FifoBuffer

	messages chan *Message

	errMu sync.Mutex
	err   error

	closeOnce sync.Once
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewFrameReader starts reading frames from port.
func NewFrameReader(port io.ReadCloser) *FrameReader {
	r := &FrameReader{
		port:        port,
		inputBuffer: NewFifoBuffer(512),
		messages:    make(chan *Message, 16),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
	r.decoder = NewFrameDecoder(r.dispatch)

	go r.readLoop()
	return r
}

// Messages returns the channel of decoded frames. It is closed when the
// stream ends or the reader is closed.
func (r *FrameReader) Messages() <-chan *Message {
	return r.messages
}

// Receive waits up to timeout for the next frame.
func (r *FrameReader) Receive(timeout time.Duration) (*Message, error) {
	select {
	case msg, ok := <-r.messages:
		if !ok {
			return nil, ErrReaderClosed
		}
		return msg, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("receive timeout after %v", timeout)
	}
}

// Lost returns the number of frames missing from the sequence.
func (r *FrameReader) Lost() uint32 {
	return r.decoder.Lost()
}

// Resyncs returns how often corrupt data forced a resynchronisation.
func (r *FrameReader) Resyncs() uint32 {
	return r.decoder.Resyncs()
}

// Err returns the read error that ended the stream, if any. A clean end of
// stream reports nil.
func (r *FrameReader) Err() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.err
}

// readLoop continuously reads from the port and decodes frames
func (r *FrameReader) readLoop() {
	defer close(r.doneChan)
	defer close(r.messages)

	buffer := make([]byte, 256)

	for {
		select {
		case <-r.stopChan:
			return
		default:
		}

		n, err := r.port.Read(buffer)
		if n > 0 {
			data := buffer[:n]
			for len(data) > 0 {
				written := r.inputBuffer.Write(data)
				data = data[written:]
				r.decoder.Receive(r.inputBuffer)
				if written == 0 && r.inputBuffer.Free() == 0 {
					// A full buffer without a frame is garbage.
					r.inputBuffer.Reset()
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				select {
				case <-r.stopChan:
				default:
					r.errMu.Lock()
					r.err = err
					r.errMu.Unlock()
				}
			}
			return
		}
	}
}

// dispatch queues a frame, dropping the oldest when the consumer lags.
func (r *FrameReader) dispatch(msg *Message) {
	for {
		select {
		case r.messages <- msg:
			return
		default:
		}
		select {
		case <-r.messages:
		default:
		}
	}
}

// Close stops the reader and closes the port.
func (r *FrameReader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.stopChan)
		err = r.port.Close()
		<-r.doneChan
	})
	return err
}
