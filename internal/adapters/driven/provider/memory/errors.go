package memory

import "errors"

var errConnectionClosed = errors.New("connection closed")
