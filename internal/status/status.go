package status

import "errors"

// ErrLookupFailed is the only failure kind the display knows about: the
// upstream address resolution did not complete.
var ErrLookupFailed = errors.New("lookup failed")

// Branch identifies one of the mutually exclusive render branches
type Branch string

const (
	BranchPending Branch = "pending"
	BranchFailed  Branch = "failed"
	BranchReady   Branch = "ready"
)

// Status describes an in-flight external lookup.
// The zero value is Pending.
type Status struct {
	branch Branch
	value  string
	err    error
}

// Pending returns a status for a lookup that is still in flight
func Pending() Status {
	return Status{branch: BranchPending}
}

// Failed returns a terminal failure status. A nil reason is replaced by
// ErrLookupFailed.
func Failed(reason error) Status {
	if reason == nil {
		reason = ErrLookupFailed
	}
	return Status{branch: BranchFailed, err: reason}
}

// Ready returns a terminal status holding the resolved value
func Ready(value string) Status {
	return Status{branch: BranchReady, value: value}
}

// Branch returns the active render branch
func (s Status) Branch() Branch {
	if s.branch == "" {
		return BranchPending
	}
	return s.branch
}

// Value returns the resolved value. ok is false unless the status is Ready.
func (s Status) Value() (value string, ok bool) {
	if s.Branch() != BranchReady {
		return "", false
	}
	return s.value, true
}

// Err returns the failure reason, or nil unless the status is Failed
func (s Status) Err() error {
	if s.Branch() != BranchFailed {
		return nil
	}
	return s.err
}

// Terminal reports whether the lookup has finished
func (s Status) Terminal() bool {
	return s.Branch() != BranchPending
}

// Equal reports whether two statuses select the same branch with the same
// value. Failure reasons are compared by presence only.
func (s Status) Equal(o Status) bool {
	if s.Branch() != o.Branch() {
		return false
	}
	return s.Branch() != BranchReady || s.value == o.value
}

// String returns a log-friendly representation
func (s Status) String() string {
	switch s.Branch() {
	case BranchReady:
		return "ready(" + s.value + ")"
	case BranchFailed:
		return "failed(" + s.err.Error() + ")"
	default:
		return "pending"
	}
}

// Flags is the three-flag form of a lookup status as published by
// collaborators that track loading, error and value separately.
type Flags struct {
	Loading bool
	Err     error
	Value   string
}

// FromFlags converts the three-flag form. Loading takes precedence over an
// error, and an error takes precedence over the value.
func FromFlags(f Flags) Status {
	switch {
	case f.Loading:
		return Pending()
	case f.Err != nil:
		return Failed(f.Err)
	default:
		return Ready(f.Value)
	}
}
