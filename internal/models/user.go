package models

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	Phone                 string    `json:"phone"`
	PasswordHash          string    `json:"-"`
	FirstName             string    `json:"firstName,omitempty"`
	LastName              string    `json:"lastName,omitempty"`
	ProfileImageURL       string    `json:"profileImageUrl,omitempty"`
	WhatsAppNotifications bool      `json:"whatsappNotifications"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// DisplayName returns "First Last", falling back to the email address.
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}
