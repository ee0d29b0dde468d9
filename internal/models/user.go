package models

// User is the attendee identity record.
type User struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	AvatarURL string `json:"avatar_url" db:"avatar_url"`
	Role      string `json:"role" db:"role"`
	Level     int    `json:"level" db:"level"`
}

// LoginRequest represents an attendee picking their badge at the door
type LoginRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Passcode string `json:"passcode"`
}
