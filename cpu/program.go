package cpu

import (
	"iter"
)

// Opcode is one assembled line: its source location and instruction.
type Opcode struct {
	LineNo    int
	Pc        int
	Words     []string
	Code      Instruction
	LinkLabel string
}

// Program is an immutable sequence of instructions addressed by program counter.
type Program struct {
	Opcodes []Opcode
}

// NewProgram returns a program of the instructions, without source locations.
func NewProgram(codes ...Instruction) (prog *Program) {
	prog = &Program{}
	for pc, code := range codes {
		prog.Opcodes = append(prog.Opcodes, Opcode{Pc: pc, Code: code})
	}
	return
}

// Len returns the number of instructions.
func (prog *Program) Len() int {
	return len(prog.Opcodes)
}

// Fetch returns the instruction at pc.
func (prog *Program) Fetch(pc int) (code Instruction, err error) {
	if pc < 0 || pc >= len(prog.Opcodes) {
		err = ErrPcRange
		return
	}

	code = prog.Opcodes[pc].Code
	return
}

// LineNo returns the source line of the instruction at pc, or 0 if unknown.
func (prog *Program) LineNo(pc int) int {
	if pc < 0 || pc >= len(prog.Opcodes) {
		return 0
	}
	return prog.Opcodes[pc].LineNo
}

// Codes iterates over the instructions in program counter order.
func (prog *Program) Codes() iter.Seq2[int, Instruction] {
	return func(yield func(pc int, code Instruction) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Pc, op.Code) {
				return
			}
		}
	}
}

// Uses returns true if any instruction in the program uses the opcode.
func (prog *Program) Uses(op Op) bool {
	for _, code := range prog.Codes() {
		if code.Op == op {
			return true
		}
	}
	return false
}
