package timetable

import "fmt"

// ImportFileError locates a problem in an import file
type ImportFileError struct {
	Line int
	Err  error
}

func (e *ImportFileError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *ImportFileError) Unwrap() error {
	return e.Err
}
