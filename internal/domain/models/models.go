package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

type Movie struct {
	ID          int64     `json:"id" db:"id"`                     // Unique integer ID for the movie
	Title       string    `json:"title" db:"title"`               // Movie title
	Genre       string    `json:"genre" db:"genre"`               // Movie genre (i.e. Comedy, Drama, Sci-Fi)
	ReleaseYear *int32    `json:"release_year" db:"release_year"` // Movie release year
	Rating      *float64  `json:"rating" db:"rating"`             // Rating from 0 to 10
	Director    *string   `json:"director" db:"director"`
	Duration    *int32    `json:"duration" db:"duration"` // Movie runtime (in minutes)
	Description *string   `json:"description" db:"description"`
	UserID      int64     `json:"user_id" db:"user_id"` // Admin who added the movie, informational only
	Public      bool      `json:"public" db:"public"`   // Anonymous visitors only see public movies
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Comment struct {
	ID        int64     `json:"id" db:"id"`
	MovieID   int64     `json:"movie_id" db:"movie_id"`
	UserID    int64     `json:"user_id" db:"user_id"`   // Author, grants edit rights
	Username  string    `json:"username" db:"username"` // Author's username at the time of writing
	Text      string    `json:"text" db:"text"`
	Rating    *float64  `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type UserStats struct {
	Movies   int `json:"movies"`
	Comments int `json:"comments"`
}

// Principal is the identity acting on behalf of a single request.
// The zero value is the anonymous principal.
type Principal struct {
	UserID   int64
	Username string
	Role     Role
}

var AnonymousPrincipal = Principal{}

// NewPrincipal builds an authenticated principal from a stored user.
// Users with an unknown role resolve to the anonymous principal.
func NewPrincipal(user *User) Principal {
	if user == nil || user.ID == 0 || !user.Role.IsValid() {
		return AnonymousPrincipal
	}
	return Principal{UserID: user.ID, Username: user.Username, Role: user.Role}
}

func (p Principal) IsAnonymous() bool {
	return p.UserID == 0
}

func (p Principal) IsAdmin() bool {
	return !p.IsAnonymous() && p.Role == RoleAdmin
}
