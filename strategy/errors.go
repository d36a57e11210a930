package strategy

import "errors"

// ErrUnknownTieBreak indicates that a tie-break policy name is not recognized.
var ErrUnknownTieBreak = errors.New("unknown tie-break policy")
