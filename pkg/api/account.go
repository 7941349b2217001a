package api

import "time"

// Profile is the public view of an account.
type Profile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PhotoURL      string    `json:"photoUrl,omitempty"`
	Initials      string    `json:"initials"`
	EmailVerified bool      `json:"emailVerified"`
	GoogleLinked  bool      `json:"googleLinked"`
	CreatedAt     time.Time `json:"createdAt"`
}

type SignUpRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email,max=254"`
	Password       string `json:"password" validate:"required"`
	RepeatPassword string `json:"repeatPassword" validate:"required"`
	PhotoURL       string `json:"photoUrl,omitempty" validate:"omitempty,url,max=2048"`
}

type SignUpResponse struct {
	Profile Profile `json:"profile"`
	// VerificationSent is true when a verification email went out.
	VerificationSent bool `json:"verificationSent"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignInResponse carries a session token for the Authorization header.
type SignInResponse struct {
	Profile   Profile   `json:"profile"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SignInWithGoogleRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type SendEmailVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type VerifyEmailResponse struct {
	Profile Profile `json:"profile"`
}

type SendPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token          string `json:"token" validate:"required"`
	NewPassword    string `json:"newPassword" validate:"required"`
	RepeatPassword string `json:"repeatPassword" validate:"required"`
}

// UpdateProfileRequest changes only the fields that are set.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	PhotoURL *string `json:"photoUrl,omitempty" validate:"omitempty,max=2048"`
}

type ProfileResponse struct {
	Profile Profile `json:"profile"`
}
