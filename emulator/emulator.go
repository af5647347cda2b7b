// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs duet programs, either as a single machine that
// recovers its last sent value, or as two machines exchanging messages.
package emulator

import (
	"fmt"
	"iter"
	"maps"

	"go.uber.org/zap"

	"github.com/ezrec/duet/cpu"
	"github.com/ezrec/duet/internal"
)

// MACHINE_COUNT is the number of machines in a duet.
const MACHINE_COUNT = 2

var _emulator_defines = map[string]string{
	"MACHINE_COUNT": fmt.Sprintf("%v", MACHINE_COUNT),
}

// defines concatenates the emulator defines with those of a machine.
func defines(m *cpu.Machine) iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines), m.Defines())
}

// logger returns the logger, or a no-op logger when none is set.
func logger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// runtimeError wraps a machine error with its location.
func runtimeError(prog *cpu.Program, id int, pc int, err error) error {
	return &ErrRuntime{Machine: id, Pc: pc, LineNo: prog.LineNo(pc), Err: err}
}
