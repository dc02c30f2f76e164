package api

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"railbook/models"
	"railbook/session"
	"railbook/stubserver"
)

// newBackend seeds the reference backend with two customers, an admin and
// one train, and returns its base URL.
func newBackend(t *testing.T) string {
	t.Helper()

	server := stubserver.New()
	seed := func(name, email, mobile string, role models.Role) {
		t.Helper()
		user := models.User{Name: name, Email: email, Mobile: mobile, Age: 34}
		if err := server.SeedUser(user, "secret", role); err != nil {
			t.Fatalf("seed user %s: %v", email, err)
		}
	}
	seed("Asha", "asha@example.com", "9999999999", models.RoleCustomer)
	seed("Ravi", "ravi@example.com", "8888888888", models.RoleCustomer)
	seed("Root", "admin@example.com", "7777777777", models.RoleAdmin)

	if err := server.SeedTrain(models.Itinerary{
		TrainName:   "Rajdhani Express",
		TrainNumber: "12951",
		RoutePoints: []models.RoutePoint{
			{Station: "Mumbai Central"}, {Station: "New Delhi"},
		},
		Fare: models.FareTable{SL: 100, AC3: 300, AC2: 500, AC1: 800},
	}); err != nil {
		t.Fatalf("seed train: %v", err)
	}

	backend := httptest.NewServer(server.Handler())
	t.Cleanup(backend.Close)
	return backend.URL
}

// loginAs logs in against the backend and returns a client carrying the
// established session.
func loginAs(t *testing.T, baseURL, email string, role models.Role) *Client {
	t.Helper()

	client := NewClient(baseURL, time.Second, session.NewStore(""))
	result, err := client.Login(context.Background(), email, "secret", role)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	if result.Role != role {
		t.Fatalf("login role = %s, want %s", result.Role, role)
	}
	if _, err := client.sessions.Establish(email, result.Role, result.Cookie, time.Hour, false); err != nil {
		t.Fatalf("establish session: %v", err)
	}
	return client
}

func confirmTwo(t *testing.T, client *Client) *models.Booking {
	t.Helper()
	booking, err := client.ConfirmTicket(context.Background(), models.ConfirmTicketRequest{
		TrainNumber: "12951",
		Class:       models.ClassThirdAC,
		Passengers: []models.Passenger{
			{Name: "Asha", Age: 34, Gender: models.GenderFemale},
			{Name: "Ravi", Age: 36, Gender: models.GenderMale},
		},
	})
	if err != nil {
		t.Fatalf("ConfirmTicket: %v", err)
	}
	return booking
}

func TestRequiresSessionBeforeNetwork(t *testing.T) {
	// Deliberately unreachable base URL: the calls must fail on the
	// missing session before any dial is attempted.
	client := NewClient("http://127.0.0.1:1", time.Second, session.NewStore(""))
	ctx := context.Background()

	if _, err := client.ConfirmTicket(ctx, models.ConfirmTicketRequest{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("ConfirmTicket err = %v, want ErrUnauthenticated", err)
	}
	if _, err := client.ListBookings(ctx); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("ListBookings err = %v, want ErrUnauthenticated", err)
	}
	if err := client.CancelBooking(ctx, "x"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("CancelBooking err = %v, want ErrUnauthenticated", err)
	}
	if _, err := client.UserDetails(ctx); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("UserDetails err = %v, want ErrUnauthenticated", err)
	}
}

func TestConfirmTicketComputesTotal(t *testing.T) {
	baseURL := newBackend(t)
	client := loginAs(t, baseURL, "asha@example.com", models.RoleCustomer)

	booking := confirmTwo(t, client)
	if booking.TotalFare != 600 {
		t.Fatalf("total = %d, want 600 (two passengers in AC3)", booking.TotalFare)
	}
	if len(booking.Passengers) != 2 || booking.Email != "asha@example.com" {
		t.Fatalf("booking = %+v", booking)
	}
	if booking.BookingID == "" {
		t.Fatal("booking has no id")
	}
}

func TestConfirmTicketUnknownTrain(t *testing.T) {
	baseURL := newBackend(t)
	client := loginAs(t, baseURL, "asha@example.com", models.RoleCustomer)

	_, err := client.ConfirmTicket(context.Background(), models.ConfirmTicketRequest{
		TrainNumber: "00000",
		Class:       models.ClassSleeper,
		Passengers:  []models.Passenger{{Name: "Asha", Age: 34, Gender: models.GenderFemale}},
	})
	if !errors.Is(err, ErrConfirmationFailed) {
		t.Fatalf("err = %v, want ErrConfirmationFailed", err)
	}
}

func TestListBookingsScopedToIdentity(t *testing.T) {
	baseURL := newBackend(t)
	asha := loginAs(t, baseURL, "asha@example.com", models.RoleCustomer)
	ravi := loginAs(t, baseURL, "ravi@example.com", models.RoleCustomer)
	admin := loginAs(t, baseURL, "admin@example.com", models.RoleAdmin)
	ctx := context.Background()

	confirmTwo(t, asha)
	confirmTwo(t, ravi)

	own, err := asha.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings (customer): %v", err)
	}
	if len(own) != 1 || own[0].Email != "asha@example.com" {
		t.Fatalf("customer sees %+v, want only their own booking", own)
	}

	all, err := admin.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings (admin): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin sees %d bookings, want 2", len(all))
	}
}

func TestCancelBookingOwnership(t *testing.T) {
	baseURL := newBackend(t)
	asha := loginAs(t, baseURL, "asha@example.com", models.RoleCustomer)
	ravi := loginAs(t, baseURL, "ravi@example.com", models.RoleCustomer)
	admin := loginAs(t, baseURL, "admin@example.com", models.RoleAdmin)
	ctx := context.Background()

	first := confirmTwo(t, asha)
	second := confirmTwo(t, asha)

	// A non-owning customer is refused; the booking survives.
	if err := ravi.CancelBooking(ctx, first.BookingID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign cancel err = %v, want ErrForbidden", err)
	}
	remaining, err := asha.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("booking count = %d after refused cancel, want 2", len(remaining))
	}

	// The owner may cancel.
	if err := asha.CancelBooking(ctx, first.BookingID); err != nil {
		t.Fatalf("owner cancel: %v", err)
	}

	// The admin may cancel anyone's.
	if err := admin.CancelBooking(ctx, second.BookingID); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}

	if err := asha.CancelBooking(ctx, first.BookingID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancel of gone booking err = %v, want ErrNotFound", err)
	}
}

func TestUserDetailsForVerification(t *testing.T) {
	baseURL := newBackend(t)
	client := loginAs(t, baseURL, "asha@example.com", models.RoleCustomer)

	user, err := client.UserDetails(context.Background())
	if err != nil {
		t.Fatalf("UserDetails: %v", err)
	}
	if user.Mobile != "9999999999" || user.Email != "asha@example.com" {
		t.Fatalf("user = %+v", user)
	}
}

func TestAddTrainRequiresAdmin(t *testing.T) {
	baseURL := newBackend(t)
	customer := loginAs(t, baseURL, "asha@example.com", models.RoleCustomer)
	admin := loginAs(t, baseURL, "admin@example.com", models.RoleAdmin)
	ctx := context.Background()

	itinerary := models.Itinerary{
		TrainName:   "Duronto Express",
		TrainNumber: "12261",
		RoutePoints: []models.RoutePoint{{Station: "Mumbai CST"}, {Station: "Howrah"}},
		Fare:        models.FareTable{SL: 150, AC3: 350, AC2: 550, AC1: 900},
	}

	if err := customer.AddTrain(ctx, itinerary); !errors.Is(err, ErrForbidden) {
		t.Fatalf("customer add-train err = %v, want ErrForbidden", err)
	}
	if err := admin.AddTrain(ctx, itinerary); err != nil {
		t.Fatalf("admin add-train: %v", err)
	}

	itineraries, err := customer.ListItineraries(ctx)
	if err != nil {
		t.Fatalf("ListItineraries: %v", err)
	}
	if len(itineraries) != 2 {
		t.Fatalf("catalog size = %d after add, want 2", len(itineraries))
	}
}
