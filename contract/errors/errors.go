package errors

// Error codes for the routing contracts. Keep stable; used across adapters and the endpoint.
const (
	ErrCodeMissingVTable     = "objectrouter.missing_vtable"
	ErrCodeInvalidPath       = "objectrouter.invalid_path"
	ErrCodeDuplicatePath     = "objectrouter.duplicate_path"
	ErrCodeBindingFailed     = "objectrouter.binding_failed"
	ErrCodeInterfaceNotFound = "objectrouter.interface_not_found"
	ErrCodeNotConnected      = "objectrouter.not_connected"
)

// Code returns an error value that carries only a code string.
// It implements error by returning the code string in Error().
func Code(code string) error { return codedError(code) }

type codedError string

func (e codedError) Error() string { return string(e) }

var (
	ErrMissingVTable     = Code(ErrCodeMissingVTable)
	ErrInvalidPath       = Code(ErrCodeInvalidPath)
	ErrDuplicatePath     = Code(ErrCodeDuplicatePath)
	ErrBindingFailed     = Code(ErrCodeBindingFailed)
	ErrInterfaceNotFound = Code(ErrCodeInterfaceNotFound)
	ErrNotConnected      = Code(ErrCodeNotConnected)
)
