package validation

import "strings"

// LoginInput is the sanitized login form.
type LoginInput struct {
	Email    string
	Password string
	Remember bool
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login validates the login form. The email is trimmed and lower-cased; the
// password is passed through untouched.
func Login(raw map[string]any) (LoginInput, error) {
	errs := Errors{}

	email, _, ok := stringField(raw, "email")
	if !ok {
		errs.Add("email", mustBeString("email"))
	}
	password, _, ok := stringField(raw, "password")
	if !ok {
		errs.Add("password", mustBeString("password"))
	}

	form := loginForm{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	collect(form, errs)
	if len(errs) > 0 {
		return LoginInput{}, errs
	}

	remember := false
	switch v := raw["remember"].(type) {
	case bool:
		remember = v
	case string:
		remember = v == "1" || v == "on" || v == "true"
	}

	return LoginInput{Email: form.Email, Password: form.Password, Remember: remember}, nil
}
