package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperand(t *testing.T) {
	assert := assert.New(t)

	o := Reg('p')
	reg, ok := o.Register()
	assert.True(ok)
	assert.Equal(15, reg)
	assert.Equal("p", o.String())

	o = Imm(-17)
	_, ok = o.Register()
	assert.False(ok)
	assert.Equal("-17", o.String())

	assert.Equal("", Operand{}.String())
	assert.Equal("reg", OPERAND_REGISTER.String())
}

func TestOpString(t *testing.T) {
	assert := assert.New(t)

	names := []string{"snd", "set", "add", "sub", "mul", "mod", "rcv", "jgz", "jnz"}
	for n, name := range names {
		assert.Equal(name, Op(n).String())
	}
	assert.Equal("Op(9)", Op(OP_COUNT).String())
}

func TestNewInstruction(t *testing.T) {
	assert := assert.New(t)

	none := Operand{}

	table := [](struct {
		name string
		op   Op
		a, b Operand
		err  error
	}){
		{"snd_imm", OP_SND, Imm(1), none, nil},
		{"snd_reg", OP_SND, Reg('a'), none, nil},
		{"snd_extra", OP_SND, Reg('a'), Imm(1), ErrOpcodeExtraArgs},
		{"snd_none", OP_SND, none, none, ErrOpcodeValueMissing},
		{"rcv_reg", OP_RCV, Reg('a'), none, nil},
		{"rcv_imm", OP_RCV, Imm(1), none, ErrTargetInvalid},
		{"set_reg", OP_SET, Reg('z'), Imm(1), nil},
		{"set_imm", OP_SET, Imm(2), Imm(1), ErrTargetInvalid},
		{"add_missing", OP_ADD, Reg('a'), none, ErrOpcodeValueMissing},
		{"mod_reg_reg", OP_MOD, Reg('a'), Reg('b'), nil},
		{"jgz_imm_imm", OP_JGZ, Imm(1), Imm(3), nil},
		{"jnz_reg_reg", OP_JNZ, Reg('a'), Reg('b'), nil},
		{"bad_register", OP_SET, Operand{Kind: OPERAND_REGISTER, Value: 26}, Imm(1), ErrRegisterInvalid},
		{"bad_opcode", Op(42), Reg('a'), Imm(1), ErrOpcodeInvalid},
	}

	for _, entry := range table {
		ins, err := NewInstruction(entry.op, entry.a, entry.b)
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.name)
			continue
		}
		assert.NoError(err, entry.name)
		assert.Equal(entry.op, ins.Op, entry.name)
	}
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("jgz a -1", MustInstruction(OP_JGZ, Reg('a'), Imm(-1)).String())
	assert.Equal("snd 1", MustInstruction(OP_SND, Imm(1), Operand{}).String())
	assert.Panics(func() { MustInstruction(OP_SET, Imm(1), Imm(1)) })
}
