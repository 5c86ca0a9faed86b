package model

import (
	"time"
)

type User struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"`
	Phone        string  `db:"phone" json:"phone"`
	Whatsapp     *string `db:"whatsapp" json:"whatsapp,omitempty"`

	ProfilePicture       *string `db:"profile_picture" json:"profilePicture,omitempty"`
	ProfilePictureHandle *string `db:"profile_picture_handle" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (u *User) HasProfilePicture() bool {
	return u.ProfilePictureHandle != nil && *u.ProfilePictureHandle != ""
}
