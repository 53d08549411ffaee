package handlers

import (
	"strings"

	"urbandict/models"

	"github.com/go-playground/validator/v10"
)

type LoginForm struct {
	Username string `form:"username" validate:"required,min=2,max=20"`
	Password string `form:"password" validate:"required"`
}

type RegisterForm struct {
	Username        string `form:"username" validate:"required,max=150"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"required"`
}

// Validate collects the registration rules the tag validation cannot express:
// the reserved guest prefix, leading whitespace and the confirm match.
func (f *RegisterForm) Validate(v *validator.Validate) []string {
	var errs []string

	if err := v.Struct(f); err != nil {
		errs = append(errs, "Neplatny formular")
	}

	if strings.HasPrefix(f.Username, models.AnonPrefix) {
		errs = append(errs, "Meno nemoze zacinat na "+models.AnonPrefix)
	}

	if strings.HasPrefix(f.Username, " ") {
		errs = append(errs, "Meno nemoze zacinat na medzeru")
	}

	if f.Password != "" && f.ConfirmPassword != "" && f.Password != f.ConfirmPassword {
		errs = append(errs, "Hesla nesedia.")
	}

	return errs
}

type PostForm struct {
	Title   string `form:"title" validate:"required,max=255"`
	Text    string `form:"text" validate:"required,max=10000"`
	Example string `form:"example" validate:"required,max=10000"`
}

type GuestPostForm struct {
	PostForm
	Email string `form:"email_for_verification" validate:"required,email"`
}

type ChangePasswordForm struct {
	OldPassword     string `form:"old_password" validate:"required"`
	NewPassword     string `form:"new_password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"required"`
}

type ReactRequest struct {
	Type string `json:"type"`
}
