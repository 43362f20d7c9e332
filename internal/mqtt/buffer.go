package mqtt

import "log"

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a bounded FIFO that keeps the newest messages while
// disconnected. Not safe for concurrent use; RealPublisher guards it.
type ringBuffer struct {
	msgs     []bufferedMsg
	capacity int
	dropped  int
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &ringBuffer{
		msgs:     make([]bufferedMsg, 0, capacity),
		capacity: capacity,
	}
}

// push appends msg, evicting the oldest message when full.
func (r *ringBuffer) push(msg bufferedMsg) {
	if len(r.msgs) == r.capacity {
		if r.dropped == 0 {
			log.Printf("mqtt: buffer full (%d messages), dropping oldest", r.capacity)
		}
		r.dropped++
		copy(r.msgs, r.msgs[1:])
		r.msgs[len(r.msgs)-1] = msg
		return
	}
	r.msgs = append(r.msgs, msg)
}

// drainAll returns buffered messages oldest first and empties the buffer.
// It also returns how many messages were evicted since the last drain.
func (r *ringBuffer) drainAll() ([]bufferedMsg, int) {
	if len(r.msgs) == 0 {
		d := r.dropped
		r.dropped = 0
		return nil, d
	}

	out := make([]bufferedMsg, len(r.msgs))
	copy(out, r.msgs)
	d := r.dropped

	r.msgs = r.msgs[:0]
	r.dropped = 0
	return out, d
}

func (r *ringBuffer) len() int {
	return len(r.msgs)
}
