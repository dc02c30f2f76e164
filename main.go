package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"railbook/api"
	"railbook/config"
	"railbook/models"
	"railbook/session"
	"railbook/stubserver"
	"railbook/workflow"
)

const usage = `railbook - train e-ticketing client

Usage:
  railbook login --email <email> [--admin] [--remember]
  railbook logout
  railbook trains [--from <station>] [--to <station>]
  railbook book --train <number> --class <SL|AC3|AC2|AC1>
  railbook bookings
  railbook cancel <booking-id>
  railbook add-train <itinerary.json>
  railbook serve
`

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	sessions := session.NewStore(cfg.SessionFile)
	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, sessions)
	ctx := context.Background()

	var err error
	switch cmd := os.Args[1]; cmd {
	case "login":
		err = runLogin(ctx, cfg, client, sessions, os.Args[2:])
	case "logout":
		sessions.Clear()
		log.Println("Logged out")
	case "trains":
		err = runTrains(ctx, client, os.Args[2:])
	case "book":
		err = runBook(ctx, client, os.Args[2:])
	case "bookings":
		err = runBookings(ctx, client)
	case "cancel":
		err = runCancel(ctx, client, os.Args[2:])
	case "add-train":
		err = runAddTrain(ctx, client, os.Args[2:])
	case "serve":
		err = runServe(cfg)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("Error: %v", friendly(err))
	}
}

// friendly maps taxonomy errors onto actionable messages.
func friendly(err error) string {
	switch {
	case errors.Is(err, api.ErrUnauthenticated):
		return "not logged in (run `railbook login`)"
	case errors.Is(err, api.ErrForbidden):
		return "not allowed: " + err.Error()
	case errors.Is(err, api.ErrCatalogUnavailable):
		return "could not reach the train catalog, try again later"
	}
	return err.Error()
}

func runLogin(ctx context.Context, cfg *config.Config, client *api.Client, sessions *session.Store, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	admin := fs.Bool("admin", false, "log in as administrator")
	remember := fs.Bool("remember", false, "keep the session across restarts")
	fs.Parse(args)

	if *email == "" {
		return errors.New("--email is required")
	}
	if *password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		*password = strings.TrimSpace(line)
	}

	role := models.RoleCustomer
	if *admin {
		role = models.RoleAdmin
	}

	result, err := client.Login(ctx, *email, *password, role)
	if err != nil {
		return err
	}
	if _, err := sessions.Establish(*email, result.Role, result.Cookie, cfg.SessionTTL, *remember); err != nil {
		return err
	}

	log.Printf("Logged in as %s (%s)", *email, result.Role)
	return nil
}

func runTrains(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("trains", flag.ExitOnError)
	from := fs.String("from", "", "origin station")
	to := fs.String("to", "", "destination station")
	fs.Parse(args)

	itineraries, err := client.ListItineraries(ctx)
	if err != nil {
		return err
	}
	if *from != "" && *to != "" {
		itineraries = api.FilterByStations(itineraries, *from, *to)
	}
	if len(itineraries) == 0 {
		log.Println("No trains available")
		return nil
	}

	for _, it := range itineraries {
		stations := make([]string, len(it.RoutePoints))
		for i, p := range it.RoutePoints {
			stations[i] = p.Station
		}
		log.Printf("%s  %s\n  route: %s\n  fare: SL %d / AC3 %d / AC2 %d / AC1 %d",
			it.TrainNumber, it.TrainName, strings.Join(stations, " -> "),
			it.Fare.SL, it.Fare.AC3, it.Fare.AC2, it.Fare.AC1)
	}
	return nil
}

func runBook(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	trainNumber := fs.String("train", "", "train number")
	className := fs.String("class", "", "fare class (SL, AC3, AC2, AC1)")
	fs.Parse(args)

	if *trainNumber == "" || *className == "" {
		return errors.New("--train and --class are required")
	}
	class, err := models.ParseFareClass(*className)
	if err != nil {
		return err
	}

	itineraries, err := client.ListItineraries(ctx)
	if err != nil {
		return err
	}
	var itinerary *models.Itinerary
	for i := range itineraries {
		if itineraries[i].TrainNumber == *trainNumber {
			itinerary = &itineraries[i]
			break
		}
	}
	if itinerary == nil {
		return fmt.Errorf("train %s not found in the catalog", *trainNumber)
	}

	checkout, err := workflow.New(*itinerary, class, client, client)
	if err != nil {
		return err
	}
	return runCheckout(ctx, checkout, bufio.NewScanner(os.Stdin))
}

// runCheckout drives the interactive roster/confirm loop.
func runCheckout(ctx context.Context, checkout *workflow.Checkout, input *bufio.Scanner) error {
	log.Printf("Booking %s (%s), class %s", checkout.Itinerary().TrainNumber,
		checkout.Itinerary().TrainName, checkout.Class())
	log.Println("Commands: add <name> <age> <MALE|FEMALE|OTHERS>, remove <n>, list, confirm, quit")

	for {
		fmt.Fprint(os.Stderr, "> ")
		if !input.Scan() {
			return checkout.Abandon()
		}
		fields := strings.Fields(input.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "add":
			if len(fields) != 4 {
				log.Println("usage: add <name> <age> <MALE|FEMALE|OTHERS>")
				continue
			}
			age, err := strconv.Atoi(fields[2])
			if err != nil {
				log.Printf("bad age %q", fields[2])
				continue
			}
			p := models.Passenger{Name: fields[1], Age: age, Gender: models.Gender(strings.ToUpper(fields[3]))}
			if err := checkout.AddPassenger(p); err != nil {
				log.Printf("cannot add passenger: %v", err)
				continue
			}
			log.Printf("Total fare: %d", checkout.Total())

		case "remove":
			if len(fields) != 2 {
				log.Println("usage: remove <n>")
				continue
			}
			index, err := strconv.Atoi(fields[1])
			if err != nil {
				log.Printf("bad index %q", fields[1])
				continue
			}
			if err := checkout.RemovePassenger(index - 1); err != nil {
				log.Printf("cannot remove passenger: %v", err)
				continue
			}
			log.Printf("Total fare: %d", checkout.Total())

		case "list":
			for i, p := range checkout.Roster() {
				log.Printf("%d. %s (%d, %s)", i+1, p.Name, p.Age, p.Gender)
			}
			log.Printf("Total fare: %d", checkout.Total())

		case "confirm":
			if err := checkout.RequestConfirm(); err != nil {
				log.Printf("cannot confirm: %v", err)
				continue
			}
			booking, err := verifyLoop(ctx, checkout, input)
			if err != nil {
				return err
			}
			if booking == nil {
				continue // verification abandoned, back to editing
			}
			log.Printf("Booking confirmed: %s (total %d)", booking.BookingID, booking.TotalFare)
			return nil

		case "quit":
			return checkout.Abandon()

		default:
			log.Printf("unknown command %q", fields[0])
		}
	}
}

// verifyLoop prompts for the mobile number until verification succeeds or
// the user backs out. Returns nil, nil when the user backs out.
func verifyLoop(ctx context.Context, checkout *workflow.Checkout, input *bufio.Scanner) (*models.Booking, error) {
	for {
		fmt.Fprint(os.Stderr, "Registered mobile number (empty to go back): ")
		if !input.Scan() {
			return nil, checkout.Abandon()
		}
		mobile := strings.TrimSpace(input.Text())
		if mobile == "" {
			return nil, nil
		}

		booking, err := checkout.VerifyAndConfirm(ctx, mobile)
		if err != nil {
			log.Printf("confirmation failed: %v", err)
			continue
		}
		return booking, nil
	}
}

func runBookings(ctx context.Context, client *api.Client) error {
	bookings, err := client.ListBookings(ctx)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		log.Println("No bookings")
		return nil
	}

	for _, b := range bookings {
		log.Printf("%s  train %s (%s)  class %s  %d passenger(s)  total %d  [%s]",
			b.BookingID, b.TrainNumber, b.TrainName, b.Class, len(b.Passengers), b.TotalFare, b.Email)
	}
	return nil
}

func runCancel(ctx context.Context, client *api.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: railbook cancel <booking-id>")
	}
	if err := client.CancelBooking(ctx, args[0]); err != nil {
		return err
	}
	log.Printf("Booking %s cancelled", args[0])
	return nil
}

func runAddTrain(ctx context.Context, client *api.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: railbook add-train <itinerary.json>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var itinerary models.Itinerary
	if err := json.Unmarshal(data, &itinerary); err != nil {
		return fmt.Errorf("parse itinerary: %w", err)
	}
	if err := client.AddTrain(ctx, itinerary); err != nil {
		return err
	}
	log.Printf("Train %s added", itinerary.TrainNumber)
	return nil
}

// runServe starts the in-memory reference backend.
func runServe(cfg *config.Config) error {
	server := stubserver.New()

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: server.Handler(),
	}

	go func() {
		log.Printf("Reference backend listening on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
