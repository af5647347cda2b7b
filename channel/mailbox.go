package channel

import (
	"iter"
)

// MAILBOX_INITIAL_CAPACITY is the first allocation of a Mailbox, in values.
const MAILBOX_INITIAL_CAPACITY = 16

// Mailbox implements an unbounded circular FIFO of values.
// Values are received in the order they were sent, and the buffer doubles
// whenever it fills.
type Mailbox struct {
	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []int64
}

var _ Channel = (*Mailbox)(nil)

// Rewind empties the mailbox, keeping its allocation.
func (mb *Mailbox) Rewind() {
	mb.ReadIndex = 0
	mb.WriteIndex = 0
	mb.Size = 0
}

// Len returns the number of values waiting in the mailbox.
func (mb *Mailbox) Len() int {
	return mb.Size
}

// Receive removes and returns the oldest value in the mailbox.
func (mb *Mailbox) Receive() (value int64, ok bool) {
	if mb.Size == 0 {
		return
	}

	value = mb.Data[mb.ReadIndex]
	mb.ReadIndex++
	if mb.ReadIndex == len(mb.Data) {
		mb.ReadIndex = 0
	}
	mb.Size--

	return value, true
}

// Pending iterates over the waiting values, oldest first.
func (mb *Mailbox) Pending() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		index := mb.ReadIndex
		for range mb.Size {
			if !yield(mb.Data[index]) {
				return
			}
			index++
			if index == len(mb.Data) {
				index = 0
			}
		}
	}
}

// Send appends a value to the mailbox.
func (mb *Mailbox) Send(value int64) (err error) {
	if mb == nil {
		err = ErrChannelInvalid
		return
	}

	if mb.Size == len(mb.Data) {
		mb.grow()
	}

	mb.Data[mb.WriteIndex] = value

	mb.WriteIndex++
	if mb.WriteIndex == len(mb.Data) {
		mb.WriteIndex = 0
	}
	mb.Size++

	return
}

// grow doubles the buffer, unwrapping the waiting values to its start.
func (mb *Mailbox) grow() {
	capacity := max(MAILBOX_INITIAL_CAPACITY, 2*len(mb.Data))
	data := make([]int64, 0, capacity)
	for value := range mb.Pending() {
		data = append(data, value)
	}

	mb.ReadIndex = 0
	mb.WriteIndex = len(data)
	mb.Data = data[:capacity]
}
