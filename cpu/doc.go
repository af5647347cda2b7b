// Package cpu implements the duet register machine and its assembler.
//
// A Machine has twenty-six 64-bit signed registers (a-z), a program counter,
// and a run state. Programs are a fixed sequence of nine opcodes: arithmetic
// (set, add, sub, mul, mod), relative jumps (jgz, jnz), and the communication
// pair snd/rcv, which a Machine never resolves itself. A snd leaves the
// Machine in STATE_SENT for its owner to route, and a rcv pulls from whatever
// channel the owner attached as the Machine's Inbox.
//
// The assembler reads the line oriented text form, one instruction per line,
// with comments, equates, labels and compile-time expression evaluation.
package cpu
