package customers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/avecor-crm/avecor-crm/internal/platform/httpx"
)

var (
	documentoPattern = regexp.MustCompile(`^[0-9]{8,11}$`)
	telefonoPattern  = regexp.MustCompile(`^[0-9]{9,15}$`)
)

// newValidator builds the payload validator with the CRM's custom rules.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("documento", func(fl validator.FieldLevel) bool {
		return documentoPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("telefono", func(fl validator.FieldLevel) bool {
		return telefonoPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidationError carries the full list of field messages for a rejected
// payload. Validation never fails fast; every violated rule is reported.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return httpx.ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error {
	return httpx.ErrValidation
}

// collectMessages translates validator failures into the human-readable
// Spanish messages the API has always returned.
func collectMessages(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{httpx.ErrValidation.Error()}
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	field := jsonFieldName(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio", field)
	case "documento":
		return "El documento debe tener entre 8 y 11 dígitos"
	case "telefono":
		return "El teléfono debe tener entre 9 y 15 dígitos"
	case "email":
		return "El email no tiene un formato válido"
	case "oneof":
		return fmt.Sprintf("El campo %s debe ser uno de: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("El campo %s supera el largo máximo de %s", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("El campo %s está fuera de rango", field)
	default:
		return fmt.Sprintf("El campo %s no es válido", field)
	}
}

// jsonFieldName derives the wire name from the struct path reported by the
// validator, e.g. "CustomerInput.NumeroDocumento" -> "numero_documento".
func jsonFieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "TipoDocumento":
		return "tipo_documento"
	case "NumeroDocumento":
		return "numero_documento"
	case "RazonSocial":
		return "razon_social"
	case "NombreComercial":
		return "nombre_comercial"
	case "Telefono":
		return "telefono"
	case "Email":
		return "email"
	case "Direccion":
		return "direccion"
	case "Zona":
		return "zona"
	case "TipoCliente":
		return "tipo_cliente"
	case "Preferencias":
		return "preferencias"
	case "TipoHuevo":
		return "preferencias.tipo_huevo"
	case "FrecuenciaCompra":
		return "preferencias.frecuencia_compra"
	case "HorarioPreferido":
		return "preferencias.horario_preferido"
	case "Observaciones":
		return "preferencias.observaciones"
	case "Latitud":
		return "latitud"
	case "Longitud":
		return "longitud"
	case "Estado":
		return "estado"
	default:
		return strings.ToLower(fe.Field())
	}
}
