package ticketoffice

import (
	"errors"
	"fmt"
)

var ErrInvalidPassengerName = errors.New("passenger name must not be empty")

type NoSuchPassengerIdError struct {
	ID int
}

func (e *NoSuchPassengerIdError) Error() string {
	return fmt.Sprintf("passenger %d does not exist", e.ID)
}

type NoSuchItineraryChoiceError struct {
	PassengerID int
	Choice      int
}

func (e *NoSuchItineraryChoiceError) Error() string {
	return fmt.Sprintf("itinerary choice %d is not available to passenger %d", e.Choice, e.PassengerID)
}

type NonUniquePassengerNameError struct {
	Name string
}

func (e *NonUniquePassengerNameError) Error() string {
	return fmt.Sprintf("passenger name %q is already registered", e.Name)
}
