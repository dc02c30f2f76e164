package stubserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"railbook/models"
)

// SeedUser registers an account without going through signup. Used to set
// up fixtures and the admin accounts signup cannot create.
func (s *Server) SeedUser(user models.User, password string, role models.Role) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[user.Email] = &account{user: user, hash: hash, role: role}
	return nil
}

// signup registers a new customer
func (s *Server) signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	_, exists := s.accounts[req.Email]
	s.mu.Unlock()
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	user := models.User{Name: req.Name, Email: req.Email, Mobile: req.Mobile, Age: req.Age}
	if err := s.SeedUser(user, req.Password, models.RoleCustomer); err != nil {
		log.Printf("Error registering user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "signup successful"})
}

// login authenticates an account of the expected role and issues the
// session cookie plus a bearer token.
func (s *Server) login(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		s.mu.Lock()
		acct := s.accounts[req.Email]
		s.mu.Unlock()

		if acct == nil || acct.role != role ||
			bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token := uuid.NewString()
		s.mu.Lock()
		s.tokens[token] = req.Email
		s.mu.Unlock()

		sess, _ := s.store.Get(c.Request, sessionName)
		sess.Values["email"] = req.Email
		sess.Values["role"] = string(acct.role)
		if err := sess.Save(c.Request, c.Writer); err != nil {
			log.Printf("Error saving session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to establish session"})
			return
		}

		log.Printf("Login: %s (%s)", req.Email, acct.role)
		c.JSON(http.StatusOK, models.LoginResponse{Token: token, Role: acct.role})
	}
}

// logout drops the session cookie and forgets the caller's bearer tokens.
func (s *Server) logout(c *gin.Context) {
	sess, _ := s.store.Get(c.Request, sessionName)
	email, _ := sess.Values["email"].(string)
	sess.Options.MaxAge = -1
	_ = sess.Save(c.Request, c.Writer)

	if email != "" {
		s.mu.Lock()
		for token, owner := range s.tokens {
			if owner == email {
				delete(s.tokens, token)
			}
		}
		s.mu.Unlock()
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// userDetails returns the caller's identity details
func (s *Server) userDetails(c *gin.Context) {
	acct := s.accountFor(c)
	if acct == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}
	c.JSON(http.StatusOK, acct.user)
}

// updateDetails replaces the caller's profile fields. The email stays the
// account key and cannot change here.
func (s *Server) updateDetails(c *gin.Context) {
	var req models.User
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acct := s.accountFor(c)
	if acct == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}

	s.mu.Lock()
	if req.Name != "" {
		acct.user.Name = req.Name
	}
	if req.Mobile != "" {
		acct.user.Mobile = req.Mobile
	}
	if req.Age > 0 {
		acct.user.Age = req.Age
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "details updated"})
}
