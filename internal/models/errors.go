package models

import "errors"

// ErrDataUnavailable indicates the backing dataset is missing or empty.
// Fatal for the whole pipeline; callers surface it and produce no results.
var ErrDataUnavailable = errors.New("vehicle dataset unavailable")
