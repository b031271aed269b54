package expiry

import "errors"

var (
	ErrNoTransfers = errors.New("no expired transfers")
)
