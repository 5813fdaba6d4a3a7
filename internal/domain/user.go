package domain

import "time"

type User struct {
	ID        string
	FirstName string
	LastName  string
	Phone     string
	Password  string
	Avatar    string
	Status    string
	LastSeen  time.Time
	IsOnline  bool
	CreatedAt time.Time
}

func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Redacted returns a copy of the user safe to persist as a session
// snapshot or hand to a presentation layer.
func (u *User) Redacted() *User {
	if u == nil {
		return nil
	}
	redacted := *u
	redacted.Password = ""
	return &redacted
}

func NewUser(id, firstName, lastName, phone, password string, now time.Time) *User {
	return &User{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Password:  password,
		Status:    "Disponible",
		LastSeen:  now,
		IsOnline:  false,
		CreatedAt: now,
	}
}
