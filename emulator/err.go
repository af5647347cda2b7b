package emulator

import (
	"errors"

	"github.com/ezrec/duet/translate"
)

var f = translate.From

var (
	ErrStepLimit      = errors.New(f("step limit reached"))
	ErrProgramMissing = errors.New(f("program missing"))
	ErrConfigRegister = errors.New(f("config register invalid"))
	ErrConfigIdentity = errors.New(f("config identity count"))
	ErrConfigLimit    = errors.New(f("config limit negative"))
	ErrStalled        = errors.New(f("scheduler stalled with messages in flight"))
)

// ErrRuntime indicates the machine and location of a runtime error.
type ErrRuntime struct {
	Machine int
	Pc      int
	LineNo  int
	Err     error
}

func (err *ErrRuntime) Error() string {
	return f("machine %d pc %d line %d %v", err.Machine, err.Pc, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrConfigKey is a configuration key that is not understood.
type ErrConfigKey string

func (err ErrConfigKey) Error() string {
	return f("config key '%v' unknown", string(err))
}
