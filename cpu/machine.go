package cpu

import (
	"errors"
	"fmt"
	"iter"
	"maps"
)

// State is the run state of a Machine.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING   = State(0) // running
	STATE_RECEIVING = State(1) // receiving
	STATE_SENT      = State(2) // sent
	STATE_HALTED    = State(3) // halted
)

// Mode selects what rcv does with its Inbox.
type Mode int

const (
	// MODE_DUET blocks an empty rcv in STATE_RECEIVING, and retries it on
	// the next Tick.
	MODE_DUET = Mode(0)
	// MODE_SOLO treats an empty rcv as a no-op, and halts the machine once
	// a rcv recovers a value.
	MODE_SOLO = Mode(1)
)

// Inbox is the source of values for rcv.
type Inbox interface {
	Receive() (value int64, ok bool)
}

var _cpu_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
}

// Machine is one runnable instance of a Program.
type Machine struct {
	Mode    Mode     // Behaviour of rcv.
	Program *Program // Shared, read-only program.
	Inbox   Inbox    // Source for rcv.

	Register [REGISTER_COUNT]int64 // Register file, a-z.
	Pc       int                   // Program counter.
	State    State                 // Run state.
	Output   int64                 // Value of the last snd, while in STATE_SENT.

	Ticks  int           // Tick counter, including blocked rcv retries.
	Counts [OP_COUNT]int // Completed instructions, by opcode.
}

// NewMachine creates a Machine running prog.
func NewMachine(prog *Program, mode Mode) (m *Machine) {
	m = &Machine{
		Mode:    mode,
		Program: prog,
	}

	return
}

// Defines for the machine
func (m *Machine) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset clears the registers, program counter, state and counters.
func (m *Machine) Reset() {
	clear(m.Register[:])
	clear(m.Counts[:])
	m.Pc = 0
	m.State = STATE_RUNNING
	m.Output = 0
	m.Ticks = 0
}

// Sent returns the number of snd instructions executed.
func (m *Machine) Sent() int {
	return m.Counts[OP_SND]
}

// Consume takes the value of a pending snd, and returns the machine to
// STATE_RUNNING.
func (m *Machine) Consume() (value int64, ok bool) {
	if m.State != STATE_SENT {
		return
	}

	m.State = STATE_RUNNING
	return m.Output, true
}

// Wake returns a machine blocked in rcv to STATE_RUNNING.
func (m *Machine) Wake() (ok bool) {
	if m.State != STATE_RECEIVING {
		return
	}

	m.State = STATE_RUNNING
	return true
}

// String returns the machine state, with only the non-zero registers.
func (m *Machine) String() (text string) {
	text = fmt.Sprintf("% 5s: %04d\n", "pc", m.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "state", m.State)
	for n, val := range m.Register {
		if val == 0 {
			continue
		}
		text += fmt.Sprintf("% 5s: %d\n", string(rune('a'+n)), val)
	}

	return
}

// Tick fetches and executes the instruction at the program counter.
func (m *Machine) Tick() (err error) {
	if m.State == STATE_HALTED {
		err = ErrMachineHalted
		return
	}

	// The owner must Consume a snd before the next Tick.
	if m.State == STATE_SENT {
		err = ErrSendPending
		return
	}

	// A blocked rcv is retried.
	m.State = STATE_RUNNING

	code, err := m.Program.Fetch(m.Pc)
	if err != nil {
		return
	}

	return m.Execute(code)
}

// Execute executes a single decoded instruction.
func (m *Machine) Execute(code Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	m.Ticks++

	next_pc := m.Pc + 1
	completed := true

	var a, b int64

	switch code.Op {
	case OP_SND:
		a, err = m.value(code.A)
		if err != nil {
			return
		}
		m.State = STATE_SENT
		m.Output = a
	case OP_SET:
		b, err = m.value(code.B)
		if err != nil {
			return
		}
		err = m.store(code.A, b)
	case OP_ADD, OP_SUB, OP_MUL, OP_MOD:
		a, err = m.value(code.A)
		if err != nil {
			return
		}
		b, err = m.value(code.B)
		if err != nil {
			return
		}
		var out int64
		out, err = alu(code.Op, a, b)
		if err != nil {
			return
		}
		err = m.store(code.A, out)
	case OP_RCV:
		if m.Inbox == nil {
			err = ErrInboxMissing
			return
		}
		if _, ok := code.A.Register(); !ok {
			err = ErrTargetInvalid
			return
		}
		value, ok := m.Inbox.Receive()
		switch {
		case ok && m.Mode == MODE_SOLO:
			err = m.store(code.A, value)
			m.State = STATE_HALTED
		case ok:
			err = m.store(code.A, value)
		case m.Mode == MODE_SOLO:
			// Nothing recovered yet.
		default:
			m.State = STATE_RECEIVING
			next_pc = m.Pc
			completed = false
		}
	case OP_JGZ, OP_JNZ:
		a, err = m.value(code.A)
		if err != nil {
			return
		}
		if (code.Op == OP_JGZ && a > 0) || (code.Op == OP_JNZ && a != 0) {
			b, err = m.value(code.B)
			if err != nil {
				return
			}
			next_pc = m.Pc + int(b)
		}
	default:
		err = ErrOpcodeInvalid
		return
	}

	if err != nil {
		return
	}

	if completed {
		m.Counts[code.Op]++
	}

	m.Pc = next_pc

	return
}

// alu returns the result of an arithmetic opcode. Overflow wraps.
func alu(op Op, a, b int64) (out int64, err error) {
	switch op {
	case OP_ADD:
		out = a + b
	case OP_SUB:
		out = a - b
	case OP_MUL:
		out = a * b
	case OP_MOD:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		out = a % b
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// value resolves an operand against the register file.
func (m *Machine) value(o Operand) (value int64, err error) {
	switch o.Kind {
	case OPERAND_IMMEDIATE:
		value = o.Value
	case OPERAND_REGISTER:
		if o.Value < 0 || o.Value >= REGISTER_COUNT {
			err = ErrRegisterInvalid
			return
		}
		value = m.Register[o.Value]
	default:
		err = ErrOperandMissing
	}

	return
}

// store writes a value through a register operand.
func (m *Machine) store(o Operand, value int64) (err error) {
	reg, ok := o.Register()
	if !ok {
		err = ErrTargetInvalid
		return
	}
	if reg < 0 || reg >= REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	m.Register[reg] = value
	return
}
