// Package cmderr holds the closed set of outcomes returned by built-ins and
// the process launcher.
package cmderr

// Code is a command outcome. It carries no payload beyond its kind.
//
// Every non-OK Code is an error so handlers can return it directly; OK is
// never returned as an error value, handlers return nil instead.
type Code int

const (
	OK Code = iota
	InvalidArgumentNumber
	InvalidArgument
	// UnknownCommand signals a registry miss. The dispatcher turns it into a
	// process launch, it is never shown to the user.
	UnknownCommand
	InvalidFilePath
	UnableToOpenNotepad
	ForkError
	InvalidProcessInput
	InvalidPID
)

var names = map[Code]string{
	OK:                    "OK",
	InvalidArgumentNumber: "INVALID_ARGUMENT_NUMBER",
	InvalidArgument:       "INVALID_ARGUMENT",
	UnknownCommand:        "UNKNOWN_COMMAND",
	InvalidFilePath:       "INVALID_FILE_PATH",
	UnableToOpenNotepad:   "UNABLE_TO_OPEN_NOTEPAD",
	ForkError:             "FORK_ERROR",
	InvalidProcessInput:   "INVALID_PROCESS_INPUT",
	InvalidPID:            "INVALID_PID",
}

var messages = map[Code]string{
	InvalidArgumentNumber: "wrong number of arguments",
	InvalidArgument:       "invalid argument",
	InvalidFilePath:       "file not found",
	UnableToOpenNotepad:   "couldn't open notepad",
	ForkError:             "couldn't create process",
	InvalidProcessInput:   "invalid program name",
	InvalidPID:            "invalid PID",
}

// String returns the symbolic name of the code, e.g. "INVALID_PID".
func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return "UNKNOWN_CODE"
}

// Error implements error with the message shown to the user.
func (c Code) Error() string {
	return c.Message()
}

// Message gets the user facing text for the code. OK and UnknownCommand are
// never displayed so their messages are empty.
func (c Code) Message() string {
	return messages[c]
}

// Displayed reports whether the read-eval loop should print the code.
func (c Code) Displayed() bool {
	return c != OK && c != UnknownCommand
}

// FromError converts an error returned by a handler back into a Code.
// nil maps to OK and errors that aren't codes report ok = false.
func FromError(err error) (code Code, ok bool) {
	if err == nil {
		return OK, true
	}
	code, ok = err.(Code)
	return code, ok
}
