// Package model holds the records the backend returns. They are transient
// copies: the console never persists them beyond the query cache.
package model

import "time"

type Image struct {
	SecureURL string `json:"secureUrl"`
	FileName  string `json:"fileName"`
}

type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Phone    string   `json:"phone,omitempty"`
	Roles    []string `json:"roles"`
	IsActive bool     `json:"isActive"`
	Image    string   `json:"image,omitempty"`
}

// AuthResponse is the body of signin, verify-email-code and check-status.
type AuthResponse struct {
	User
	Token string `json:"token"`
}

type SignUpResponse struct {
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
}

type Currency struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

type AccountType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Account struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Balance     float64      `json:"balance"`
	AccountType *AccountType `json:"accountType,omitempty"`
	Currency    *Currency    `json:"currency,omitempty"`
	IsActive    bool         `json:"isActive"`
}

type Service struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"durationMinutes"`
	Currency        *Currency `json:"currency,omitempty"`
	Staff           []Staff   `json:"staff,omitempty"`
	Images          []string  `json:"images"`
	IsActive        bool      `json:"isActive"`
}

type Staff struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Services  []Service `json:"services,omitempty"`
	Image     string    `json:"image,omitempty"`
	IsActive  bool      `json:"isActive"`
}

func (s Staff) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	default:
		return s.FirstName + " " + s.LastName
	}
}

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	ID      string            `json:"id"`
	Date    time.Time         `json:"date"`
	Status  AppointmentStatus `json:"status"`
	Notes   string            `json:"notes,omitempty"`
	User    *User             `json:"user,omitempty"`
	Service *Service          `json:"service,omitempty"`
	Staff   *Staff            `json:"staff,omitempty"`
}

// DeleteResponse covers endpoints that answer a delete with a message or
// with nothing at all.
type DeleteResponse struct {
	Message string `json:"message,omitempty"`
}
