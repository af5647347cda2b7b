package emulator

import (
	"errors"
	"iter"

	"go.uber.org/zap"

	"github.com/ezrec/duet/channel"
	"github.com/ezrec/duet/cpu"
)

// Solo runs a single machine to completion.
//
// Each snd overwrites the Latch. A rcv recovers the latched value, and
// halts the machine, once a non-zero value has been sent. Running off
// either end of the program is a normal end.
type Solo struct {
	Verbose bool         // If set, logs every instruction.
	Logger  *zap.Logger  // Destination of verbose logs.
	Config  *Config      // Register seeding and limit.
	Program *cpu.Program // Program to run.

	Machine *cpu.Machine
	Latch   channel.Latch

	Recovered int64 // Value recovered by the halting rcv.
	Halted    bool  // Set if a rcv recovered a value.
}

// NewSolo creates a single machine runner seeded by cfg, or by
// DefaultConfig if cfg is nil.
func NewSolo(cfg *Config) (solo *Solo) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	solo = &Solo{
		Config:  cfg,
		Verbose: cfg.Verbose,
		Program: &cpu.Program{},
	}

	solo.Machine = cpu.NewMachine(solo.Program, cpu.MODE_SOLO)

	return
}

// Defines returns an iterator over all of the defines
func (solo *Solo) Defines() iter.Seq2[string, string] {
	return defines(solo.Machine)
}

// Reset the machine to run Program from the start, with the configured
// registers preset. The identity register is not seeded.
func (solo *Solo) Reset() (err error) {
	if solo.Program == nil {
		err = ErrProgramMissing
		return
	}

	err = solo.Config.Validate()
	if err != nil {
		return
	}

	solo.Latch.Rewind()
	solo.Recovered = 0
	solo.Halted = false

	m := solo.Machine
	m.Program = solo.Program
	m.Inbox = &solo.Latch
	m.Reset()
	solo.Config.preset(&m.Register)

	return
}

// Muls returns the number of mul instructions executed.
func (solo *Solo) Muls() int {
	return solo.Machine.Counts[cpu.OP_MUL]
}

// Tick performs a single instruction.
func (solo *Solo) Tick() (done bool, err error) {
	if solo.Halted {
		done = true
		return
	}

	m := solo.Machine
	pc := m.Pc

	if solo.Verbose {
		code, _ := solo.Program.Fetch(pc)
		logger(solo.Logger).Debug("tick",
			zap.Int("pc", pc),
			zap.Stringer("code", code))
	}

	err = m.Tick()
	if errors.Is(err, cpu.ErrPcRange) {
		err = nil
		done = true
		return
	}
	if err != nil {
		err = runtimeError(solo.Program, 0, pc, err)
		return
	}

	if value, ok := m.Consume(); ok {
		err = solo.Latch.Send(value)
		if err != nil {
			err = runtimeError(solo.Program, 0, pc, err)
			return
		}
	}

	if m.State == cpu.STATE_HALTED {
		solo.Recovered = solo.Latch.Value
		solo.Halted = true
		done = true
		logger(solo.Logger).Debug("recovered",
			zap.Int("pc", pc),
			zap.Int64("value", solo.Recovered))
	}

	return
}

// Run ticks the machine until it halts, leaves the program, fails, or
// reaches the configured step limit.
func (solo *Solo) Run() (err error) {
	var done bool
	for !done {
		if solo.Config.Limit > 0 && solo.Machine.Ticks >= solo.Config.Limit {
			err = ErrStepLimit
			return
		}
		done, err = solo.Tick()
		if err != nil {
			return
		}
	}

	return
}
