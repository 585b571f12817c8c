package domain

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// LoginCredentials is the sign-in form. The original product accepted short
// legacy passwords on login, so the minimum here is looser than on sign-up.
type LoginCredentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=4"`
}

// SignupCredentials is the registration form.
type SignupCredentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// CredentialHints maps a failed field name ("Email", "Password") to the inline
// hint shown next to it. Empty when the form is valid.
type CredentialHints map[string]string

// Validate checks a credentials struct and returns per-field hints.
// These checks run before any remote call; invalid forms are never sent.
func Validate(creds any) CredentialHints {
	err := validate.Struct(creds)
	if err == nil {
		return nil
	}
	hints := CredentialHints{}
	var fieldErrs validator.ValidationErrors
	ok := false
	if fieldErrs, ok = err.(validator.ValidationErrors); !ok {
		hints["Email"] = "Revisa tus datos."
		return hints
	}
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "Email":
			hints["Email"] = "Escribe un correo válido."
		case "Password":
			if fe.Tag() == "min" {
				hints["Password"] = "Contraseña mínima " + fe.Param() + " caracteres."
			} else {
				hints["Password"] = "Escribe tu contraseña."
			}
		}
	}
	return hints
}
