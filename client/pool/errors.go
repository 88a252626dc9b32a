package pool

import "errors"

// ErrPoolExhausted is returned by Acquire when max_total connections are
// already idle or checked out and no waiting is performed (spec §4.4: "no
// waiting" — Acquire either succeeds immediately or fails immediately).
var ErrPoolExhausted = errors.New("pool: exhausted")

// ErrInvalidAddress is returned when the configured address cannot be
// resolved/dialed in a way that indicates a malformed address string.
var ErrInvalidAddress = errors.New("pool: invalid address")
