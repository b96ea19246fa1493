package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User is a local account. Its public identity is the linked Person.
type User struct {
	gorm.Model  `json:"-"`
	Username    string  `json:"username" gorm:"uniqueIndex;size:64"`
	Email       string  `json:"email" gorm:"uniqueIndex"`
	Password    string  `json:"-"`                                         // bcrypt hash
	FirebaseUID *string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // set after a Firebase login
	PersonID    uint    `json:"-" gorm:"index"`
	Person      *Person `json:"person,omitempty" gorm:"foreignKey:PersonID"`
}

type CreateLocalUserRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=2,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=32"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=32"`
}

// AccessTokenClaims are the claims carried by an API access token.
type AccessTokenClaims struct {
	UserID uint   `json:"user_id"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}
