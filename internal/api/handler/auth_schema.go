package handler

import (
	"time"

	"github.com/karibu-kenya/travel-api/internal/core/domain"
	"github.com/karibu-kenya/travel-api/internal/core/ports"
)

type registerRequest struct {
	FirstName   string     `json:"first_name" validate:"required,max=50"`
	LastName    string     `json:"last_name" validate:"required,max=50"`
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=6"`
	Phone       string     `json:"phone" validate:"omitempty,max=20"`
	Nationality string     `json:"nationality" validate:"omitempty,max=60"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateDetailsRequest struct {
	FirstName        *string                  `json:"first_name" validate:"omitempty,max=50"`
	LastName         *string                  `json:"last_name" validate:"omitempty,max=50"`
	Email            *string                  `json:"email" validate:"omitempty,email"`
	Phone            *string                  `json:"phone" validate:"omitempty,max=20"`
	Nationality      *string                  `json:"nationality" validate:"omitempty,max=60"`
	DateOfBirth      *time.Time               `json:"date_of_birth"`
	Language         *string                  `json:"language" validate:"omitempty,oneof=en sw"`
	Currency         *string                  `json:"currency" validate:"omitempty,len=3"`
	Interests        *[]string                `json:"interests" validate:"omitempty,dive,oneof=wildlife culture beach adventure food history nightlife shopping"`
	Budget           *domain.Budget           `json:"budget"`
	EmergencyContact *domain.EmergencyContact `json:"emergency_contact"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// response is the success envelope shared by the auth endpoints.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (r updateDetailsRequest) toProfileUpdate() ports.ProfileUpdate {
	return ports.ProfileUpdate{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		Nationality:      r.Nationality,
		DateOfBirth:      r.DateOfBirth,
		Language:         r.Language,
		Currency:         r.Currency,
		Interests:        r.Interests,
		Budget:           r.Budget,
		EmergencyContact: r.EmergencyContact,
	}
}
