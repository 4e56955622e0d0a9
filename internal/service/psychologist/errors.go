package psychologist

import "errors"

var ErrNotFound = errors.New("psychologist not found")
