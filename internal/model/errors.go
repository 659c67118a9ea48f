package model

import "errors"

// ErrNotFound marks writes addressed at a row that does not exist.
// Handlers map it to 404; other errors stay 500.
var ErrNotFound = errors.New("not found")
