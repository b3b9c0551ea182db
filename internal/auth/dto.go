package auth

import (
	"github.com/frahmantamala/ontology-client/internal/validation"
)

// Credentials is the closed set of inputs a Strategy accepts:
// LoginCredentials, GoogleAuthData and TelegramAuthData.
type Credentials interface {
	Validate() error
	credentials()
}

type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type GoogleAuthData struct {
	IDToken string `json:"idToken"`
}

// TelegramAuthData mirrors the Telegram login widget payload. Unset optional
// fields are sent as null.
type TelegramAuthData struct {
	ID        string  `json:"id"`
	Hash      string  `json:"hash"`
	AuthDate  string  `json:"authDate"`
	FirstName string  `json:"firstName"`
	LastName  *string `json:"lastName"`
	Username  *string `json:"username"`
	PhotoURL  *string `json:"photoUrl"`
}

func (LoginCredentials) credentials() {}
func (GoogleAuthData) credentials()   {}
func (TelegramAuthData) credentials() {}

func (c LoginCredentials) Validate() error {
	v := validation.NewValidator()
	v.Field("username", c.Username).Required()
	v.Field("password", c.Password).Required()
	return v.Err()
}

func (c GoogleAuthData) Validate() error {
	v := validation.NewValidator()
	v.Field("idToken", c.IDToken).Required()
	return v.Err()
}

func (c TelegramAuthData) Validate() error {
	v := validation.NewValidator()
	v.Field("id", c.ID).Required()
	v.Field("hash", c.Hash).Required()
	v.Field("authDate", c.AuthDate).Required()
	return v.Err()
}

type RegistrationData struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

func (d RegistrationData) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(150)
	v.Field("email", d.Email).Required().MaxLength(254)
	v.Field("password", d.Password).Required()
	return v.Err()
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

func (d PasswordResetRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	return v.Err()
}

type PasswordReset struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (d PasswordReset) Validate() error {
	v := validation.NewValidator()
	v.Field("token", d.Token).Required()
	v.Field("newPassword", d.NewPassword).Required()
	return v.Err()
}

type EmailVerification struct {
	Token string `json:"token"`
}

func (d EmailVerification) Validate() error {
	v := validation.NewValidator()
	v.Field("token", d.Token).Required()
	return v.Err()
}
