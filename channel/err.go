package channel

import (
	"errors"

	"github.com/ezrec/duet/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelInvalid = errors.New(f("channel invalid"))
)
