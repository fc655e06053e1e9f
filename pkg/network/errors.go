package network

import "fmt"

type NoSuchStationError struct {
	Name string
}

func (e *NoSuchStationError) Error() string {
	return fmt.Sprintf("station %q does not exist", e.Name)
}

type NoSuchServiceError struct {
	ID int
}

func (e *NoSuchServiceError) Error() string {
	return fmt.Sprintf("service %d does not exist", e.ID)
}
