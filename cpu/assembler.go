// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.uber.org/zap"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for duet programs.
type Assembler struct {
	Verbose bool        // If set, verbosely logs the assembler actions.
	Logger  *zap.Logger // Destination of verbose logs. Defaults to zap.L().
	Opcode  []Opcode    // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to program counters.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// opMap maps opcode mnemonics.
var opMap = map[string]Op{
	"snd": OP_SND,
	"set": OP_SET,
	"add": OP_ADD,
	"sub": OP_SUB,
	"mul": OP_MUL,
	"mod": OP_MOD,
	"rcv": OP_RCV,
	"jgz": OP_JGZ,
	"jnz": OP_JNZ,
}

var labelRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// isRegister returns true for the names of the registers, a-z.
func isRegister(word string) bool {
	return len(word) == 1 && word[0] >= 'a' && word[0] <= 'z'
}

// parseNumber parses a signed decimal integer. A 0x, 0o or 0b prefix
// selects another base, but a bare leading zero is still decimal.
func parseNumber(word string) (int64, error) {
	digits := strings.TrimLeft(word, "+-")
	if len(digits) > 2 && digits[0] == '0' && strings.ContainsRune("xXoObB", rune(digits[1])) {
		return strconv.ParseInt(word, 0, 64)
	}

	return strconv.ParseInt(word, 10, 64)
}

// operandOf parses a single operand word.
func (asm *Assembler) operandOf(word string) (o Operand, err error) {
	value, perr := parseNumber(word)
	if perr == nil {
		o = Imm(value)
		return
	}

	if isRegister(word) {
		o = Reg(word[0])
		return
	}

	if len(word) == 1 && labelRe.MatchString(word) {
		err = ErrRegisterInvalid
		return
	}

	err = ErrParseValue(word)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := parseNumber(str)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into the words of an instruction.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 || isRegister(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !labelRe.MatchString(label) || isRegister(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = len(asm.Opcode)
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	logger := asm.Logger
	if logger == nil {
		logger = zap.L()
	}

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			logger.Debug("asm", zap.Int("line", lineno), zap.String("text", text))
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		pc, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		op.Code.B = Imm(int64(pc - op.Pc))
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	args := words[1:]
	if len(args) < op.Arity() {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > op.Arity() {
		err = ErrOpcodeExtraArgs
		return
	}

	var operands [2]Operand
	var label string
	for n, word := range args {
		operands[n], err = asm.operandOf(word)
		if err == nil {
			continue
		}
		// Jump offsets may name a label, linked once all labels are known.
		if n == 1 && (op == OP_JGZ || op == OP_JNZ) && labelRe.MatchString(word) {
			label = word
			operands[n] = Imm(0)
			err = nil
			continue
		}
		return
	}

	code, err := NewInstruction(op, operands[0], operands[1])
	if err != nil {
		return
	}

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo:    lineno,
		Pc:        len(asm.Opcode),
		Words:     words,
		Code:      code,
		LinkLabel: label,
	})

	return
}
