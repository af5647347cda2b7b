// Package channel provides the value channels that carry snd output to rcv.
//
// A Mailbox is the unbounded FIFO used between the two machines of a duet.
// A Latch holds only the last value sent, for a machine running alone.
package channel

import (
	"iter"
)

// Channel is a one-directional carrier of values between machines.
type Channel interface {
	// Rewind empties the channel.
	Rewind()
	// Send delivers a value into the channel.
	Send(value int64) error
	// Receive takes the next value from the channel, if one is available.
	Receive() (value int64, ok bool)
	// Len is the number of values available to Receive.
	Len() int
	// Pending iterates over the available values, without receiving them.
	Pending() iter.Seq[int64]
}
