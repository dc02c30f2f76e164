package workflow

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"railbook/api"
	"railbook/models"
	"railbook/session"
	"railbook/stubserver"
)

// TestCheckoutAgainstBackend runs the whole purchase against the reference
// backend: catalog fetch, roster assembly, mobile verification, booking
// creation, registry listing, cancellation.
func TestCheckoutAgainstBackend(t *testing.T) {
	server := stubserver.New()
	if err := server.SeedUser(models.User{Name: "Asha", Email: "asha@example.com", Mobile: "9999999999", Age: 34},
		"secret", models.RoleCustomer); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := server.SeedTrain(rajdhani); err != nil {
		t.Fatalf("seed train: %v", err)
	}
	backend := httptest.NewServer(server.Handler())
	t.Cleanup(backend.Close)

	sessions := session.NewStore("")
	client := api.NewClient(backend.URL, time.Second, sessions)
	ctx := context.Background()

	result, err := client.Login(ctx, "asha@example.com", "secret", models.RoleCustomer)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := sessions.Establish("asha@example.com", result.Role, result.Cookie, time.Hour, false); err != nil {
		t.Fatalf("establish session: %v", err)
	}

	itineraries, err := client.ListItineraries(ctx)
	if err != nil {
		t.Fatalf("list itineraries: %v", err)
	}
	matched := api.FilterByStations(itineraries, "mumbai central", "new delhi")
	if len(matched) != 1 {
		t.Fatalf("filter matched %d itineraries, want 1", len(matched))
	}

	checkout, err := New(matched[0], models.ClassThirdAC, client, client)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	addPassenger(t, checkout, "Asha")
	addPassenger(t, checkout, "Ravi")
	if err := checkout.RequestConfirm(); err != nil {
		t.Fatalf("RequestConfirm: %v", err)
	}

	// A wrong number is refused without touching the registry.
	if _, err := checkout.VerifyAndConfirm(ctx, "1234567890"); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("wrong number err = %v, want ErrVerificationFailed", err)
	}

	booking, err := checkout.VerifyAndConfirm(ctx, "9999999999")
	if err != nil {
		t.Fatalf("VerifyAndConfirm: %v", err)
	}
	if booking.TotalFare != 600 || len(booking.Passengers) != 2 {
		t.Fatalf("booking = %+v, want 2 passengers at total 600", booking)
	}

	bookings, err := client.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(bookings) != 1 || bookings[0].BookingID != booking.BookingID {
		t.Fatalf("registry lists %+v, want the confirmed booking", bookings)
	}

	if err := client.CancelBooking(ctx, booking.BookingID); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	bookings, err = client.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings after cancel: %v", err)
	}
	if len(bookings) != 0 {
		t.Fatalf("registry still lists %+v after cancel", bookings)
	}
}
