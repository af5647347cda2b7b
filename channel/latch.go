package channel

import (
	"iter"
)

// Latch holds the last value sent to it.
// A Latch only offers its value to Receive once a non-zero value is held,
// and receiving does not clear it.
type Latch struct {
	Value int64
}

var _ Channel = (*Latch)(nil)

func (l *Latch) Rewind() {
	l.Value = 0
}

func (l *Latch) Send(value int64) (err error) {
	if l == nil {
		err = ErrChannelInvalid
		return
	}

	l.Value = value
	return
}

func (l *Latch) Receive() (value int64, ok bool) {
	return l.Value, l.Value != 0
}

func (l *Latch) Len() int {
	if l.Value == 0 {
		return 0
	}
	return 1
}

func (l *Latch) Pending() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		if l.Value != 0 {
			yield(l.Value)
		}
	}
}
