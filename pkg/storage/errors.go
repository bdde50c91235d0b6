package storage

import "errors"

// ErrNotFound is returned when a draft, transaction or batch is absent or
// owned by another user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// ErrDraftNotEditable is returned by conditional draft writes when the draft
// has left the editable status between the caller's read and the write.
var ErrDraftNotEditable = errors.New("draft not in editable status")
