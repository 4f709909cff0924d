package model

import "time"

type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	CustomerName string    `json:"customer_name" bson:"customer_name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone" bson:"phone"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:           u.ID,
		CustomerName: u.CustomerName,
		Email:        u.Email,
		Phone:        u.Phone,
	}
}

type UserRegistration struct {
	CustomerName string `json:"customer_name" validate:"required,min=1,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,phone9"`
	Password     string `json:"password" validate:"required,min=6,maxbytes=72"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PublicUser struct {
	ID           string `json:"id"`
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

type AdminSession struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
}
