package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// StructuralArchiveError means the archive as a whole cannot be restored.
type StructuralArchiveError struct {
	Reason string
}

func (e StructuralArchiveError) Error() string {
	return "invalid backup archive: " + e.Reason
}

func (e StructuralArchiveError) Is(target error) bool {
	_, ok := target.(StructuralArchiveError)
	if ok {
		return true
	}
	_, ok = target.(*StructuralArchiveError)
	return ok
}

var ErrStructuralArchive = StructuralArchiveError{}

// ImageDecodeError is returned when a payload is not a decodable image.
type ImageDecodeError struct {
	Err error
}

func (e ImageDecodeError) Error() string {
	if e.Err == nil {
		return "cannot decode image"
	}
	return "cannot decode image: " + e.Err.Error()
}

func (e ImageDecodeError) Unwrap() error { return e.Err }

func (e ImageDecodeError) Is(target error) bool {
	_, ok := target.(ImageDecodeError)
	if ok {
		return true
	}
	_, ok = target.(*ImageDecodeError)
	return ok
}

var ErrImageDecode = ImageDecodeError{}

// UnresolvedReferenceError is a member key that does not map to a local member.
type UnresolvedReferenceError struct {
	Key string
}

func (e UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved member reference %q", e.Key)
}

func (e UnresolvedReferenceError) Is(target error) bool {
	_, ok := target.(UnresolvedReferenceError)
	if ok {
		return true
	}
	_, ok = target.(*UnresolvedReferenceError)
	return ok
}

var ErrUnresolvedReference = UnresolvedReferenceError{}

// StoreWriteError wraps a failure reported by the record store.
type StoreWriteError struct {
	Op  string
	Err error
}

func (e StoreWriteError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e StoreWriteError) Unwrap() error { return e.Err }

func (e StoreWriteError) Is(target error) bool {
	_, ok := target.(StoreWriteError)
	if ok {
		return true
	}
	_, ok = target.(*StoreWriteError)
	return ok
}

var ErrStoreWrite = StoreWriteError{}

// InvalidInputError is a request payload the usecases cannot accept.
type InvalidInputError struct {
	Reason string
}

func (e InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func (e InvalidInputError) Is(target error) bool {
	_, ok := target.(InvalidInputError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidInputError)
	return ok
}

var ErrInvalidInput = InvalidInputError{}
