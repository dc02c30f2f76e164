package models

// Role of an authenticated session.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User holds the identity details behind a session, fetched from
// /users/details. Mobile is the registered number the checkout
// verification step compares against.
type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
	Age    int    `json:"age"`
}

// LoginRequest is the body of POST /users/login and /admins/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and role. The backend also sets a
// session cookie; the token mirrors it so non-browser clients can replay it.
type LoginResponse struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

// SignupRequest is the body of POST /users/signup.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Mobile   string `json:"mobile" binding:"required"`
	Age      int    `json:"age" binding:"required"`
	Password string `json:"password" binding:"required"`
}
