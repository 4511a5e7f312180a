package model

import "time"

// User mirrors a row in the external users table. Column names are owned
// by the datastore, including the camel-cased userName.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"userName"`
	Password         string    `json:"password"`
	IsPasswordHashed bool      `json:"is_password_hashed"`
	CreatedAt        time.Time `json:"created_at"`
}

// Profile is the projected user shape returned by /me.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"userName"`
	CreatedAt time.Time `json:"created_at"`
}
