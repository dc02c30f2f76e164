package models

import (
	"errors"
	"fmt"
)

// ErrInvalidPassenger is returned when a passenger fails validation. The
// wrapped message names the failing field.
var ErrInvalidPassenger = errors.New("invalid passenger")

// Gender of a passenger, as the backend spells it.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOthers Gender = "OTHERS"
)

// Passenger is one traveler on a roster. Passengers live inside the
// in-progress checkout until confirmation, when they are snapshotted into
// the booking record.
type Passenger struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required"`
	Gender Gender `json:"gender" binding:"required"`
}

// Validate checks that the passenger has a name, a positive age and a
// recognized gender.
func (p Passenger) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidPassenger)
	}
	if p.Age <= 0 {
		return fmt.Errorf("%w: age must be positive", ErrInvalidPassenger)
	}
	switch p.Gender {
	case GenderMale, GenderFemale, GenderOthers:
	default:
		return fmt.Errorf("%w: gender %q not recognized", ErrInvalidPassenger, p.Gender)
	}
	return nil
}
