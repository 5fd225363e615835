package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator valida structs de entrada (DTOs) según sus tags `validate`.
type Validator struct {
	v *validator.Validate
}

// New construye el validador.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Validate valida el struct; retorna nil si cumple todas las reglas.
func (v *Validator) Validate(s any) error {
	return v.v.Struct(s)
}

// Message produce un mensaje legible a partir de un error de validación.
// Para errores que no son de validación devuelve err.Error() tal cual.
func Message(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es requerido", fe.Field())
	case "email":
		return fmt.Sprintf("%s debe ser un email válido", fe.Field())
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s no puede exceder %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s no cumple la regla %s", fe.Field(), fe.Tag())
	}
}
