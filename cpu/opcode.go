package cpu

import (
	"fmt"
)

// REGISTER_COUNT is the size of the register file, one per lowercase letter.
const REGISTER_COUNT = 26

// Op is an instruction opcode.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_SND = Op(0) // snd
	OP_SET = Op(1) // set
	OP_ADD = Op(2) // add
	OP_SUB = Op(3) // sub
	OP_MUL = Op(4) // mul
	OP_MOD = Op(5) // mod
	OP_RCV = Op(6) // rcv
	OP_JGZ = Op(7) // jgz
	OP_JNZ = Op(8) // jnz

	OP_COUNT = 9 // Number of opcodes.
)

// Writes returns true if the opcode stores a result through its first operand.
func (op Op) Writes() bool {
	switch op {
	case OP_SET, OP_ADD, OP_SUB, OP_MUL, OP_MOD, OP_RCV:
		return true
	}
	return false
}

// Arity returns the number of operands the opcode requires.
func (op Op) Arity() int {
	switch op {
	case OP_SND, OP_RCV:
		return 1
	}
	return 2
}

// OperandKind is the tag of an Operand.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	OPERAND_NONE      = OperandKind(0) // none
	OPERAND_IMMEDIATE = OperandKind(1) // imm
	OPERAND_REGISTER  = OperandKind(2) // reg
)

// Operand is a value source: nothing, an immediate, or a register.
type Operand struct {
	Kind  OperandKind
	Value int64 // Immediate value, or register index.
}

// Imm returns an immediate operand.
func Imm(value int64) Operand {
	return Operand{Kind: OPERAND_IMMEDIATE, Value: value}
}

// Reg returns a register operand for the register named by a lowercase letter.
func Reg(name byte) Operand {
	return Operand{Kind: OPERAND_REGISTER, Value: int64(name - 'a')}
}

// Register returns the register index, and true if the operand is a register.
func (o Operand) Register() (index int, ok bool) {
	if o.Kind != OPERAND_REGISTER {
		return
	}
	return int(o.Value), true
}

// String returns the assembly text of the operand.
func (o Operand) String() string {
	switch o.Kind {
	case OPERAND_IMMEDIATE:
		return fmt.Sprintf("%d", o.Value)
	case OPERAND_REGISTER:
		return string(rune('a' + o.Value))
	}
	return ""
}

// Instruction is an opcode with up to two operands.
type Instruction struct {
	Op Op
	A  Operand
	B  Operand
}

// NewInstruction checks the operands against the opcode and returns the instruction.
func NewInstruction(op Op, a, b Operand) (ins Instruction, err error) {
	if op < 0 || op >= OP_COUNT {
		err = ErrOpcodeInvalid
		return
	}

	if a.Kind == OPERAND_NONE {
		err = ErrOpcodeValueMissing
		return
	}

	switch op.Arity() {
	case 1:
		if b.Kind != OPERAND_NONE {
			err = ErrOpcodeExtraArgs
			return
		}
	case 2:
		if b.Kind == OPERAND_NONE {
			err = ErrOpcodeValueMissing
			return
		}
	}

	for _, o := range []Operand{a, b} {
		if o.Kind == OPERAND_REGISTER && (o.Value < 0 || o.Value >= REGISTER_COUNT) {
			err = ErrRegisterInvalid
			return
		}
	}

	if op.Writes() && a.Kind != OPERAND_REGISTER {
		err = ErrTargetInvalid
		return
	}

	ins = Instruction{Op: op, A: a, B: b}
	return
}

// MustInstruction is NewInstruction for operands known to be valid.
func MustInstruction(op Op, a, b Operand) Instruction {
	ins, err := NewInstruction(op, a, b)
	if err != nil {
		panic(fmt.Sprintf("%v %v %v: %v", op, a, b, err))
	}
	return ins
}

// String returns the assembly text of the instruction.
func (ins Instruction) String() (out string) {
	out = fmt.Sprintf("%v %v", ins.Op, ins.A)
	if ins.B.Kind != OPERAND_NONE {
		out += " " + ins.B.String()
	}
	return
}
