// Package stubserver is an in-memory reference implementation of the
// e-ticketing backend REST surface. `railbook serve` runs it for local
// development and the test suite uses it as the remote collaborator.
// Nothing is persisted beyond process lifetime.
package stubserver

import (
	crand "crypto/rand"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"railbook/models"
)

const sessionName = "railbook_session"

// account pairs a user's public details with their credential and role.
type account struct {
	user models.User
	hash []byte
	role models.Role
}

// Server holds the in-memory state behind the REST surface.
type Server struct {
	engine *gin.Engine
	store  sessions.Store

	mu       sync.Mutex
	accounts map[string]*account         // keyed by email
	trains   map[string]models.Itinerary // keyed by train number
	bookings map[string]models.Booking   // keyed by booking id
	tokens   map[string]string           // bearer token -> email
}

// New creates a server with empty state. Seed* methods populate it.
func New() *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:   gin.New(),
		store:    sessions.NewCookieStore(secureRandomKey(32)),
		accounts: make(map[string]*account),
		trains:   make(map[string]models.Itinerary),
		bookings: make(map[string]models.Booking),
		tokens:   make(map[string]string),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	r.POST("/users/signup", s.signup)
	r.POST("/users/login", s.login(models.RoleCustomer))
	r.POST("/admins/login", s.login(models.RoleAdmin))
	r.POST("/users/logout", s.logout)

	r.GET("/trains", s.listTrains)

	authed := r.Group("/", s.requireAuth)
	{
		authed.GET("/users/details", s.userDetails)
		authed.PUT("/users/details", s.updateDetails)
		authed.POST("/trains/confirm-ticket", s.confirmTicket)
		authed.GET("/trains/bookings", s.listBookings)
		authed.DELETE("/trains/bookings/:id", s.cancelBooking)
	}

	admin := r.Group("/admin", s.requireAuth, s.requireAdmin)
	{
		admin.GET("/users/details", s.userDetails)
		admin.GET("/trains/bookings", s.listAllBookings)
		admin.DELETE("/trains/bookings/:id", s.adminCancelBooking)
	}
	r.POST("/trains/add", s.requireAuth, s.requireAdmin, s.addTrain)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requireAuth resolves the calling account from the session cookie or a
// bearer token and stores its email in the gin context.
func (s *Server) requireAuth(c *gin.Context) {
	email, ok := s.currentEmail(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}
	c.Set("email", email)
	c.Next()
}

// requireAdmin gates the admin resource paths.
func (s *Server) requireAdmin(c *gin.Context) {
	acct := s.accountFor(c)
	if acct == nil || acct.role != models.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}
	c.Next()
}

func (s *Server) currentEmail(c *gin.Context) (string, bool) {
	sess, _ := s.store.Get(c.Request, sessionName)
	if email, ok := sess.Values["email"].(string); ok && email != "" {
		return email, true
	}

	// Bearer token fallback for non-browser clients.
	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		s.mu.Lock()
		email, ok := s.tokens[auth[len(prefix):]]
		s.mu.Unlock()
		if ok {
			return email, true
		}
	}
	return "", false
}

// accountFor returns the account of the authenticated caller, or nil.
func (s *Server) accountFor(c *gin.Context) *account {
	email, ok := c.Get("email")
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[email.(string)]
}

func secureRandomKey(n int) []byte {
	k := make([]byte, n)
	if _, err := crand.Read(k); err != nil {
		panic(fmt.Sprintf("read random key: %v", err))
	}
	return k
}
