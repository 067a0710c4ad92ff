package celt

import "errors"

// ErrInvalidBandRange is returned when Decode is given a start/end band
// pair outside [0, NumBands] or with start >= end.
var ErrInvalidBandRange = errors.New("celt: invalid band range")
