package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"railbook/models"
)

// ConfirmTicket persists a booking for the given train and roster. The
// backend computes and records the total from its own fare table. Any
// failure past authentication wraps ErrConfirmationFailed so the checkout
// can hold its state and offer a retry.
func (c *Client) ConfirmTicket(ctx context.Context, req models.ConfirmTicketRequest) (*models.Booking, error) {
	sess, err := c.requireSession()
	if err != nil {
		return nil, err
	}

	var resp models.ConfirmTicketResponse
	if err := c.do(ctx, http.MethodPost, "/trains/confirm-ticket", sess, req, &resp); err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrConfirmationFailed, err)
	}
	if resp.Booking != nil {
		return resp.Booking, nil
	}
	return &models.Booking{BookingID: resp.BookingID}, nil
}

// ListBookings returns the bookings visible to the current session:
// everything for an admin, only the session identity's own bookings for a
// customer.
func (c *Client) ListBookings(ctx context.Context) ([]models.Booking, error) {
	sess, err := c.requireSession()
	if err != nil {
		return nil, err
	}

	var bookings []models.Booking
	if err := c.do(ctx, http.MethodGet, rolePath(sess.Role, "/trains/bookings"), sess, nil, &bookings); err != nil {
		return nil, err
	}
	if sess.Role == models.RoleAdmin {
		return bookings, nil
	}

	// Customer scope: keep only bookings owned by the session identity.
	owned := bookings[:0]
	for _, b := range bookings {
		if b.Email == sess.Identity {
			owned = append(owned, b)
		}
	}
	return owned, nil
}

// CancelBooking deletes a booking. A customer may only cancel their own
// (ErrForbidden otherwise); the admin variant bypasses ownership. Unknown
// ids surface ErrNotFound.
func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	sess, err := c.requireSession()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, rolePath(sess.Role, "/trains/bookings/"+bookingID), sess, nil, nil)
}

// AddTrain publishes a new itinerary to the catalog. Admin only; the
// backend enforces the role.
func (c *Client) AddTrain(ctx context.Context, itinerary models.Itinerary) error {
	sess, err := c.requireSession()
	if err != nil {
		return err
	}
	if err := itinerary.Validate(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/trains/add", sess, itinerary, nil)
}
