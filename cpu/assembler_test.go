package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, prog.Len())

	assert.Equal("0", asm.Equate["LINENO"])
}

func opEqual(t *testing.T, expected []Instruction, prog *Program) {
	assert := assert.New(t)

	assert.Equal(len(expected), prog.Len())
	if len(expected) == prog.Len() {
		for n := range len(expected) {
			assert.Equal(expected[n], prog.Opcodes[n].Code)
		}
	}
}

func TestAssemblerDuet(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"set i 31",
		"set a 1",
		"mul p 17",
		"jgz p p",
		"mul a 2",
		"add i -1",
		"jgz i -2",
		"add a -1",
		"snd a",
		"rcv b",
		"mod b 10000",
		"sub b 0x10",
		"jnz 1 -3",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Instruction{
		{OP_SET, Reg('i'), Imm(31)},
		{OP_SET, Reg('a'), Imm(1)},
		{OP_MUL, Reg('p'), Imm(17)},
		{OP_JGZ, Reg('p'), Reg('p')},
		{OP_MUL, Reg('a'), Imm(2)},
		{OP_ADD, Reg('i'), Imm(-1)},
		{OP_JGZ, Reg('i'), Imm(-2)},
		{OP_ADD, Reg('a'), Imm(-1)},
		{OP_SND, Reg('a'), Operand{}},
		{OP_RCV, Reg('b'), Operand{}},
		{OP_MOD, Reg('b'), Imm(10000)},
		{OP_SUB, Reg('b'), Imm(16)},
		{OP_JNZ, Imm(1), Imm(-3)},
	}

	opEqual(t, expected, prog)

	for n, op := range prog.Opcodes {
		assert.Equal(n+1, op.LineNo)
		assert.Equal(n, op.Pc)
	}
}

func TestAssemblerComments(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"; leading comment",
		"",
		"   set a 1   ; trailing comment",
		"\tsnd\ta",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	opEqual(t, []Instruction{
		{OP_SET, Reg('a'), Imm(1)},
		{OP_SND, Reg('a'), Operand{}},
	}, prog)
	assert.Equal(3, prog.LineNo(0))
	assert.Equal(4, prog.LineNo(1))
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "0x10")

	program := []string{
		".equ COUNT 3",
		"set a COUNT",
		"set b $(COUNT * BASE + 1)",
		"set c $(LINENO)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	opEqual(t, []Instruction{
		{OP_SET, Reg('a'), Imm(3)},
		{OP_SET, Reg('b'), Imm(49)},
		{OP_SET, Reg('c'), Imm(4)},
	}, prog)
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"set a 3",
		"Loop:",
		"add a -1",
		"jgz a Loop",
		"jnz 1 Done",
		"snd a",
		"Done: Also: rcv a",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	opEqual(t, []Instruction{
		{OP_SET, Reg('a'), Imm(3)},
		{OP_ADD, Reg('a'), Imm(-1)},
		{OP_JGZ, Reg('a'), Imm(-1)},
		{OP_JNZ, Imm(1), Imm(2)},
		{OP_SND, Reg('a'), Operand{}},
		{OP_RCV, Reg('a'), Operand{}},
	}, prog)
	assert.Equal(1, asm.Label["Loop"])
	assert.Equal(5, asm.Label["Also"])
}

func TestAssemblerNumbers(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word  string
		value int64
	}){
		{"10", 10},
		{"010", 10},
		{"-010", -10},
		{"+7", 7},
		{"08", 8},
		{"-0", 0},
		{"0x10", 16},
		{"-0x10", -16},
		{"0o10", 8},
		{"0b101", 5},
		{"9223372036854775807", 9223372036854775807},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader("set a " + entry.word))
		if assert.NoError(err, entry.word) {
			assert.Equal(Imm(entry.value), prog.Opcodes[0].Code.B, entry.word)
		}
	}

	// Equates in expressions follow the same rules.
	asm := &Assembler{}
	asm.Predefine("OFFSET", "010")
	prog, err := asm.Parse(strings.NewReader("add a $(OFFSET + 1)"))
	if assert.NoError(err) {
		assert.Equal(Imm(11), prog.Opcodes[0].Code.B)
	}
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line   string
		lineno int
		err    error
	}){
		{"nop a", 1, ErrOpcodeInvalid},
		{"snd", 1, ErrOpcodeValueMissing},
		{"set a", 1, ErrOpcodeValueMissing},
		{"snd a b", 1, ErrOpcodeExtraArgs},
		{"set 1 a", 1, ErrTargetInvalid},
		{"rcv 5", 1, ErrTargetInvalid},
		{"set A 1", 1, ErrRegisterInvalid},
		{"set a 1x", 1, ErrParseValue("1x")},
		{"set ab 1", 1, ErrParseValue("ab")},
		{"set a 0x", 1, ErrParseValue("0x")},
		{"set a 0b12", 1, ErrParseValue("0b12")},
		{"jgz a Nowhere", 1, ErrLabelMissing("Nowhere")},
		{"a: set a 1", 1, ErrLabelInvalid},
		{"L: snd 1\nL: snd 2", 2, ErrLabelDuplicate},
		{".equ X", 1, ErrEquateSyntax},
		{".equ a 1", 1, ErrEquateSyntax},
		{".equ X 1\n.equ X 2", 2, ErrEquateDuplicate},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(entry.line))
		assert.ErrorIs(err, entry.err, entry.line)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.line) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.line)
		}
	}
}

func TestAssemblerExpressionError(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("set a $(1 +)"))
	assert.ErrorIs(err, ErrParseExpression("1 +"))

	_, err = asm.Parse(strings.NewReader(`set a $("text")`))
	assert.ErrorIs(err, ErrParseExpression(`"text"`))
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("L: snd 1\n.equ X 1"))
	assert.NoError(err)

	prog, err := asm.Parse(strings.NewReader("L: snd 2\n.equ X 2"))
	assert.NoError(err)
	assert.Equal(1, prog.Len())
}
