package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned by every repository backend when a record does
// not exist.
var ErrNotFound = goerr.New("record not found")
