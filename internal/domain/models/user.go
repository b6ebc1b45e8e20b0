package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	DateOfBirth  string    `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

type RegisterPayload struct {
	UserName    string `json:"userName" binding:"required,max=255"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth"`
}

type LoginPayload struct {
	UserName string `json:"userName" binding:"required,max=255"`
	Password string `json:"password" binding:"required"`
}
