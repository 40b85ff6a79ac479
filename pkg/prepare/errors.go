package prepare

import "fmt"

// ConfigurationError reports a missing or contradictory argument. It is
// always detected before any mutating step runs.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// ResolutionError reports a device argument that cannot be resolved: a
// dangling vg/lv reference, a raw device with no stable identifier, or an
// input that is neither.
type ResolutionError struct {
	Device string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot use device %s: %s", e.Device, e.Reason)
}

// PrivilegeError reports that the process lacks the elevated rights every
// mutating code path requires
type PrivilegeError struct{}

func (e *PrivilegeError) Error() string {
	return "osd preparation requires root privileges"
}

// PrimitiveError reports a failed call to an underlying system primitive
// (format, mount, tag write, registration, ...). The operation aborts where
// it failed; nothing already done is rolled back.
type PrimitiveError struct {
	Op  string
	Err error
}

func (e *PrimitiveError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PrimitiveError) Unwrap() error {
	return e.Err
}
