package customers

import (
	"errors"
	"strings"
	"testing"

	"github.com/avecor-crm/avecor-crm/internal/platform/httpx"
)

func validInput() CustomerInput {
	return CustomerInput{
		TipoDocumento:   "DNI",
		NumeroDocumento: "45678912",
		RazonSocial:     "María Quispe",
		Telefono:        "964111222",
		TipoCliente:     "persona_natural",
	}
}

func TestValidatorAcceptsMinimalInput(t *testing.T) {
	v := newValidator()
	if err := v.Struct(validInput()); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestValidatorCollectsEveryViolation(t *testing.T) {
	v := newValidator()
	in := CustomerInput{
		TipoDocumento:   "PASAPORTE",
		NumeroDocumento: "12",
		Telefono:        "abc",
		TipoCliente:     "otro",
	}
	err := v.Struct(in)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	messages := collectMessages(err)
	if len(messages) < 4 {
		t.Fatalf("expected one message per violated rule, got %v", messages)
	}
	joined := strings.Join(messages, "\n")
	for _, want := range []string{
		"tipo_documento",
		"entre 8 y 11 dígitos",
		"razon_social",
		"entre 9 y 15 dígitos",
		"tipo_cliente",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected messages to mention %q, got:\n%s", want, joined)
		}
	}
}

func TestValidatorChecksPreferenceEnums(t *testing.T) {
	v := newValidator()
	in := validInput()
	in.Preferencias = &Preferencias{TipoHuevo: "verde", HorarioPreferido: "noche"}

	err := v.Struct(in)
	if err == nil {
		t.Fatal("expected preference enums to be rejected")
	}
	joined := strings.Join(collectMessages(err), "\n")
	if !strings.Contains(joined, "preferencias.tipo_huevo") {
		t.Fatalf("expected tipo_huevo message, got:\n%s", joined)
	}
	if !strings.Contains(joined, "preferencias.horario_preferido") {
		t.Fatalf("expected horario_preferido message, got:\n%s", joined)
	}
}

func TestValidatorChecksCoordinateRanges(t *testing.T) {
	v := newValidator()
	in := validInput()
	lat := 123.0
	in.Latitud = &lat

	if err := v.Struct(in); err == nil {
		t.Fatal("expected out-of-range latitude to be rejected")
	}
}

func TestValidationErrorWrapsSentinel(t *testing.T) {
	err := error(&ValidationError{Messages: []string{"x"}})
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatal("ValidationError must unwrap to the validation sentinel")
	}
}
