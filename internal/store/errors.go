package store

import "errors"

// ErrStoreUnavailable reports that the store file could not be opened, read,
// written or synced. The underlying OS error is wrapped as well, so
// errors.Is(err, fs.ErrPermission) keeps working.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrPathEmpty reports a store opened without a file path.
var ErrPathEmpty = errors.New("store path is empty")
