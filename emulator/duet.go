package emulator

import (
	"iter"

	"go.uber.org/zap"

	"github.com/ezrec/duet/channel"
	"github.com/ezrec/duet/cpu"
)

// Stats are the externally observed results of one duet machine.
type Stats struct {
	Machine int       // Machine index.
	Sent    int       // snd instructions executed.
	Ticks   int       // Instructions executed, including blocked rcv retries.
	State   cpu.State // Final state.
	Pending int       // Values waiting in the machine's mailbox.
}

// Duet schedules two machines running the same program.
//
// The machines are held by index, with Mailbox[n] as the inbox of
// Machine[n]. A snd from one machine is delivered to the mailbox of its
// peer. The ready queue is strict FIFO, and a machine is in the queue if and
// only if it is in STATE_RUNNING. The duet is done when the queue is empty,
// which is when both machines are blocked in rcv with empty mailboxes.
type Duet struct {
	Verbose bool         // If set, logs every scheduling round.
	Logger  *zap.Logger  // Destination of verbose logs.
	Config  *Config      // Identity and register seeding.
	Program *cpu.Program // Program shared by both machines.

	Machine [MACHINE_COUNT]*cpu.Machine
	Mailbox [MACHINE_COUNT]channel.Mailbox
	Ready   []int // Ready queue of machine indexes.
	Steps   int   // Scheduling rounds since Reset.
	Err     error // Fatal error that stopped both machines, until Reset.
}

// NewDuet creates a duet seeded by cfg, or by DefaultConfig if cfg is nil.
func NewDuet(cfg *Config) (duet *Duet) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	duet = &Duet{
		Config:  cfg,
		Verbose: cfg.Verbose,
		Program: &cpu.Program{},
	}

	for id := range MACHINE_COUNT {
		duet.Machine[id] = cpu.NewMachine(duet.Program, cpu.MODE_DUET)
	}

	return
}

// Defines returns an iterator over all of the defines
func (duet *Duet) Defines() iter.Seq2[string, string] {
	return defines(duet.Machine[0])
}

// Peer returns the index of the other machine.
func (duet *Duet) Peer(id int) int {
	return MACHINE_COUNT - 1 - id
}

// Reset the duet to run Program from the start.
// - Clears the registers, counters and mailboxes.
// - Presets the configured registers, then the identity register.
// - Queues machine 0, then machine 1.
func (duet *Duet) Reset() (err error) {
	if duet.Program == nil {
		err = ErrProgramMissing
		return
	}

	err = duet.Config.Validate()
	if err != nil {
		return
	}

	identity, _ := registerIndex(duet.Config.Identity.Register)

	duet.Ready = duet.Ready[:0]
	duet.Steps = 0
	duet.Err = nil

	for id, m := range duet.Machine {
		duet.Mailbox[id].Rewind()

		m.Program = duet.Program
		m.Inbox = &duet.Mailbox[id]
		m.Reset()
		duet.Config.preset(&m.Register)
		m.Register[identity] = duet.Config.Identity.Values[id]

		duet.Ready = append(duet.Ready, id)
	}

	logger(duet.Logger).Debug("duet reset",
		zap.Int("instructions", duet.Program.Len()),
		zap.String("identity", duet.Config.Identity.Register))

	return
}

// Deadlocked returns true when both machines are blocked in rcv and no
// message is in flight.
func (duet *Duet) Deadlocked() bool {
	for id, m := range duet.Machine {
		if m.State != cpu.STATE_RECEIVING || duet.Mailbox[id].Len() != 0 {
			return false
		}
	}
	return true
}

// Step performs one scheduling round: a single instruction on the machine
// at the front of the ready queue. Step returns done once the ready queue
// is empty. A fatal error on either machine stops the duet, and every later
// Step returns it again until Reset.
func (duet *Duet) Step() (done bool, err error) {
	defer func() {
		if err != nil {
			duet.Err = err
			done = true
		}
	}()

	if duet.Err != nil {
		err = duet.Err
		return
	}

	if len(duet.Ready) == 0 {
		done = true
		if !duet.Deadlocked() {
			err = ErrStalled
		}
		return
	}

	id := duet.Ready[0]
	duet.Ready = duet.Ready[1:]

	m := duet.Machine[id]
	pc := m.Pc

	if duet.Verbose {
		code, _ := duet.Program.Fetch(pc)
		logger(duet.Logger).Debug("tick",
			zap.Int("machine", id),
			zap.Int("pc", pc),
			zap.Stringer("code", code))
	}

	err = m.Tick()
	if err != nil {
		err = runtimeError(duet.Program, id, pc, err)
		return
	}

	duet.Steps++

	switch m.State {
	case cpu.STATE_RUNNING:
		duet.Ready = append(duet.Ready, id)
	case cpu.STATE_SENT:
		value, _ := m.Consume()
		peer := duet.Peer(id)
		err = duet.Mailbox[peer].Send(value)
		if err != nil {
			err = runtimeError(duet.Program, id, pc, err)
			return
		}
		if duet.Machine[peer].Wake() {
			duet.Ready = append(duet.Ready, peer)
			if duet.Verbose {
				logger(duet.Logger).Debug("wake", zap.Int("machine", peer))
			}
		}
		duet.Ready = append(duet.Ready, id)
		if duet.Verbose {
			logger(duet.Logger).Debug("send",
				zap.Int("machine", id),
				zap.Int("peer", peer),
				zap.Int64("value", value),
				zap.Int("pending", duet.Mailbox[peer].Len()))
		}
	case cpu.STATE_RECEIVING:
		// Parked until the peer sends.
		if duet.Verbose {
			logger(duet.Logger).Debug("block", zap.Int("machine", id), zap.Int("pc", pc))
		}
	}

	done = len(duet.Ready) == 0
	return
}

// Run steps the duet until both machines are blocked in rcv, a machine
// fails, or the configured step limit is reached.
func (duet *Duet) Run() (err error) {
	var done bool
	for !done {
		if duet.Config.Limit > 0 && duet.Steps >= duet.Config.Limit {
			err = ErrStepLimit
			return
		}
		done, err = duet.Step()
		if err != nil {
			return
		}
	}

	logger(duet.Logger).Info("duet done",
		zap.Int("steps", duet.Steps),
		zap.Int("sent0", duet.Sent(0)),
		zap.Int("sent1", duet.Sent(1)))

	return
}

// Sent returns the number of snd instructions machine id executed.
func (duet *Duet) Sent(id int) int {
	return duet.Machine[id].Sent()
}

// Stats returns the results of each machine.
func (duet *Duet) Stats() (stats []Stats) {
	for id, m := range duet.Machine {
		stats = append(stats, Stats{
			Machine: id,
			Sent:    m.Sent(),
			Ticks:   m.Ticks,
			State:   m.State,
			Pending: duet.Mailbox[id].Len(),
		})
	}
	return
}
