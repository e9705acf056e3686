package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure
type Kind int

const (
	Unknown Kind = iota
	InvalidInput
	ArchiveNotFound
	ArchiveCorrupt
	ExtractionIOError
	AlreadyExists
	PermissionDenied
	SourceFileMissing
	DestinationWriteError
	IOFailure
)

var kindNames = map[Kind]string{
	Unknown:               "unknown",
	InvalidInput:          "invalid input",
	ArchiveNotFound:       "archive not found",
	ArchiveCorrupt:        "archive corrupt",
	ExtractionIOError:     "extraction I/O error",
	AlreadyExists:         "already exists",
	PermissionDenied:      "permission denied",
	SourceFileMissing:     "source file missing",
	DestinationWriteError: "destination write error",
	IOFailure:             "I/O failure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified failure carrying the operation and path involved
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

// E builds a classified error
func E(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first classified error in err's chain
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// ExitCode maps err to the process exit code. Unclassified errors exit with 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	kind := KindOf(err)
	if kind == Unknown {
		return 1
	}
	return int(kind) + 1
}
