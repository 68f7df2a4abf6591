package model

import "time"

// User is a registered account in the users collection
type User struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	FirstName      string    `json:"firstName" bson:"firstName"`
	LastName       string    `json:"lastName" bson:"lastName"`
	Email          string    `json:"email" bson:"email"`
	HashedPassword string    `json:"-" bson:"hashed_password"`
	PhoneNumber    string    `json:"phoneNumber" bson:"phoneNumber"`
	Location       string    `json:"location" bson:"location"`
	Gender         string    `json:"gender" bson:"gender"`
	Age            int       `json:"age" bson:"age"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// UserProfile is the public view of a user
type UserProfile struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Location    string    `json:"location,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Age         int       `json:"age,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Profile strips credentials from a user
func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Location:    u.Location,
		Gender:      u.Gender,
		Age:         u.Age,
		CreatedAt:   u.CreatedAt,
	}
}
