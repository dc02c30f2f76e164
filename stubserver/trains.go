package stubserver

import (
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"railbook/fare"
	"railbook/models"
)

// SeedTrain publishes an itinerary directly into the catalog.
func (s *Server) SeedTrain(itinerary models.Itinerary) error {
	if err := itinerary.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trains[itinerary.TrainNumber] = itinerary
	return nil
}

// listTrains returns the full catalog
func (s *Server) listTrains(c *gin.Context) {
	s.mu.Lock()
	trains := make([]models.Itinerary, 0, len(s.trains))
	for _, t := range s.trains {
		trains = append(trains, t)
	}
	s.mu.Unlock()

	sort.Slice(trains, func(i, j int) bool {
		return trains[i].TrainNumber < trains[j].TrainNumber
	})
	c.JSON(http.StatusOK, trains)
}

// addTrain publishes a new itinerary (admin only, enforced by middleware)
func (s *Server) addTrain(c *gin.Context) {
	var itinerary models.Itinerary
	if err := c.ShouldBindJSON(&itinerary); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := itinerary.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	_, exists := s.trains[itinerary.TrainNumber]
	if !exists {
		s.trains[itinerary.TrainNumber] = itinerary
	}
	s.mu.Unlock()

	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "train number already exists"})
		return
	}

	log.Printf("Train added: %s (%s)", itinerary.TrainNumber, itinerary.TrainName)
	c.JSON(http.StatusOK, gin.H{"message": "train added"})
}

// confirmTicket creates a booking for the caller. The total is computed
// here from the train's own fare table, not trusted from the client.
func (s *Server) confirmTicket(c *gin.Context) {
	var req models.ConfirmTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, p := range req.Passengers {
		if err := p.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	acct := s.accountFor(c)
	if acct == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}

	s.mu.Lock()
	train, ok := s.trains[req.TrainNumber]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "train not found"})
		return
	}

	total, err := fare.ComputeTotal(req.Passengers, req.Class, train.Fare)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking := models.Booking{
		BookingID:   uuid.NewString(),
		Email:       acct.user.Email,
		TrainName:   train.TrainName,
		TrainNumber: train.TrainNumber,
		Class:       req.Class,
		Passengers:  req.Passengers,
		TotalFare:   total,
	}

	s.mu.Lock()
	s.bookings[booking.BookingID] = booking
	s.mu.Unlock()

	log.Printf("Booking created: %s for %d passengers on train %s",
		booking.BookingID, len(booking.Passengers), booking.TrainNumber)

	c.JSON(http.StatusOK, models.ConfirmTicketResponse{
		BookingID: booking.BookingID,
		Booking:   &booking,
	})
}

// listBookings returns the caller's own bookings
func (s *Server) listBookings(c *gin.Context) {
	acct := s.accountFor(c)
	if acct == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}
	c.JSON(http.StatusOK, s.bookingsWhere(func(b models.Booking) bool {
		return b.Email == acct.user.Email
	}))
}

// listAllBookings returns every booking (admin only)
func (s *Server) listAllBookings(c *gin.Context) {
	c.JSON(http.StatusOK, s.bookingsWhere(func(models.Booking) bool { return true }))
}

// cancelBooking deletes a booking owned by the caller
func (s *Server) cancelBooking(c *gin.Context) {
	acct := s.accountFor(c)
	if acct == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}

	id := c.Param("id")
	s.mu.Lock()
	booking, ok := s.bookings[id]
	if ok && booking.Email == acct.user.Email {
		delete(s.bookings, id)
	}
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if booking.Email != acct.user.Email {
		c.JSON(http.StatusForbidden, gin.H{"error": "booking belongs to another user"})
		return
	}

	log.Printf("Booking cancelled: %s", id)
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// adminCancelBooking deletes any booking regardless of owner
func (s *Server) adminCancelBooking(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.bookings[id]
	delete(s.bookings, id)
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}

	log.Printf("Booking cancelled by admin: %s", id)
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// bookingsWhere copies the bookings matching the predicate, ordered by id
// for stable output.
func (s *Server) bookingsWhere(keep func(models.Booking) bool) []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if keep(b) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].BookingID < matched[j].BookingID
	})
	return matched
}
