// Package workflow drives one checkout transaction: roster assembly with a
// running fare total, confirmation gated by a mobile-number re-check, and
// booking creation through the registry. The transaction is an explicit
// state machine; illegal transitions are errors, not silent no-ops.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"railbook/fare"
	"railbook/models"
)

// IdentityService looks up the registered details of the current session's
// user. Satisfied by *api.Client.
type IdentityService interface {
	UserDetails(ctx context.Context) (*models.User, error)
}

// BookingService persists confirmed bookings. Satisfied by *api.Client.
type BookingService interface {
	ConfirmTicket(ctx context.Context, req models.ConfirmTicketRequest) (*models.Booking, error)
}

// Checkout owns the transaction-scoped state of one purchase: the chosen
// itinerary and class, the roster, and the derived total. The total is a
// projection of the roster, recomputed on every mutation, never stored
// authoritatively anywhere else.
//
// Methods are safe for concurrent use, but the intended model is a single
// caller; the mutex exists so an in-flight confirmation can be detected
// and rejected rather than duplicated.
type Checkout struct {
	mu sync.Mutex

	itinerary models.Itinerary
	class     models.FareClass
	roster    []models.Passenger
	total     int
	state     State
	inFlight  bool

	identity IdentityService
	bookings BookingService
}

// New starts a checkout for the chosen itinerary and fare class. The class
// is validated against the fare table up front; an unrecognized class is a
// contract violation and fails immediately.
func New(itinerary models.Itinerary, class models.FareClass, identity IdentityService, bookings BookingService) (*Checkout, error) {
	if err := itinerary.Validate(); err != nil {
		return nil, err
	}
	if _, err := itinerary.Fare.PriceFor(class); err != nil {
		return nil, err
	}
	return &Checkout{
		itinerary: itinerary,
		class:     class,
		state:     StateItinerarySelected,
		identity:  identity,
		bookings:  bookings,
	}, nil
}

// State returns the current phase of the transaction.
func (c *Checkout) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Total returns the running fare total.
func (c *Checkout) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Roster returns a copy of the current passenger list.
func (c *Checkout) Roster() []models.Passenger {
	c.mu.Lock()
	defer c.mu.Unlock()
	roster := make([]models.Passenger, len(c.roster))
	copy(roster, c.roster)
	return roster
}

// Itinerary returns the itinerary this checkout was opened for.
func (c *Checkout) Itinerary() models.Itinerary {
	return c.itinerary
}

// Class returns the selected fare class.
func (c *Checkout) Class() models.FareClass {
	return c.class
}

// AddPassenger validates and appends a passenger, recomputing the total.
// An invalid passenger leaves the roster and total untouched.
func (c *Checkout) AddPassenger(p models.Passenger) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	c.roster = append(c.roster, p)
	c.state = StateRosterEditing
	return c.recompute()
}

// RemovePassenger drops the passenger at index and recomputes the total.
func (c *Checkout) RemovePassenger(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return err
	}
	if index < 0 || index >= len(c.roster) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(c.roster))
	}

	c.roster = append(c.roster[:index], c.roster[index+1:]...)
	c.state = StateRosterEditing
	return c.recompute()
}

// RequestConfirm moves the checkout to ConfirmRequested, where the mobile
// number challenge is collected. With an empty roster it fails with
// ErrEmptyRoster and the checkout stays editable.
func (c *Checkout) RequestConfirm() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return err
	}
	if len(c.roster) == 0 {
		return ErrEmptyRoster
	}
	c.state = StateConfirmRequested
	return nil
}

// VerifyAndConfirm checks the entered mobile number against the session
// user's registered one and, on a match, persists the booking.
//
// Failure handling keeps the roster intact so nothing has to be re-entered:
// a lookup failure (ErrVerificationUnavailable) or a mismatch
// (ErrVerificationFailed) returns the checkout to ConfirmRequested; a
// registry failure (api.ErrConfirmationFailed) leaves it in
// VerificationPending for a direct retry. While one call is running, a
// second is rejected with ErrConfirmInFlight so a booking can never be
// duplicated by an impatient double submit.
func (c *Checkout) VerifyAndConfirm(ctx context.Context, mobile string) (*models.Booking, error) {
	c.mu.Lock()
	switch {
	case c.state.IsTerminal():
		c.mu.Unlock()
		return nil, ErrCheckoutClosed
	case c.inFlight:
		c.mu.Unlock()
		return nil, ErrConfirmInFlight
	case c.state != StateConfirmRequested && c.state != StateVerificationPending:
		c.mu.Unlock()
		return nil, ErrNotConfirmable
	}
	c.state = StateVerificationPending
	c.inFlight = true
	roster := make([]models.Passenger, len(c.roster))
	copy(roster, c.roster)
	c.mu.Unlock()

	booking, err := c.confirm(ctx, mobile, roster)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		if errors.Is(err, ErrVerificationFailed) || errors.Is(err, ErrVerificationUnavailable) {
			// No verdict or a mismatch: back to the confirm dialog.
			c.state = StateConfirmRequested
		}
		// Registry failure: stay in VerificationPending for a retry.
		return nil, err
	}

	c.state = StateConfirmed
	c.roster = nil
	c.total = 0
	log.Printf("Booking confirmed: %s (%d passengers, total %d)",
		booking.BookingID, len(booking.Passengers), booking.TotalFare)
	return booking, nil
}

// confirm runs the network side of VerifyAndConfirm without holding the
// lock: identity lookup, digit comparison, registry call.
func (c *Checkout) confirm(ctx context.Context, mobile string, roster []models.Passenger) (*models.Booking, error) {
	user, err := c.identity.UserDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}
	if digits(user.Mobile) != digits(mobile) || digits(mobile) == "" {
		return nil, ErrVerificationFailed
	}

	return c.bookings.ConfirmTicket(ctx, models.ConfirmTicketRequest{
		TrainNumber: c.itinerary.TrainNumber,
		Class:       c.class,
		Passengers:  roster,
	})
}

// Abandon cancels the transaction and discards all of its state. Valid
// from any non-terminal state; no backend call is made. While a
// confirmation is in flight the checkout cannot be abandoned: the outcome
// of the pending request must settle first.
func (c *Checkout) Abandon() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsTerminal() {
		return ErrCheckoutClosed
	}
	if c.inFlight {
		return ErrConfirmInFlight
	}
	c.state = StateAbandoned
	c.roster = nil
	c.total = 0
	return nil
}

// editable gates the roster mutations and the confirm request.
func (c *Checkout) editable() error {
	if c.state.IsTerminal() {
		return ErrCheckoutClosed
	}
	if c.inFlight {
		return ErrConfirmInFlight
	}
	return nil
}

// recompute re-derives the total from the roster. Called with the lock
// held after every roster mutation.
func (c *Checkout) recompute() error {
	total, err := fare.ComputeTotal(c.roster, c.class, c.itinerary.Fare)
	if err != nil {
		return err
	}
	c.total = total
	return nil
}

// digits strips everything but decimal digits, so "+91 99999 99999" and
// "9199999 99999" compare equal.
func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
