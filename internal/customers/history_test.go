package customers

import (
	"strings"
	"testing"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestBuildUpdateSkipsAbsentFields(t *testing.T) {
	current := Customer{RazonSocial: "Avícola Chilca"}
	sets, args, changes := buildUpdate(current, CustomerUpdate{})
	if len(sets) != 0 || len(args) != 0 || len(changes) != 0 {
		t.Fatalf("expected no-op update, got sets=%v args=%v changes=%v", sets, args, changes)
	}
}

func TestBuildUpdateRecordsOnlyRealChanges(t *testing.T) {
	current := Customer{
		RazonSocial: "Avícola Chilca",
		Telefono:    "964111222",
	}
	in := CustomerUpdate{
		RazonSocial: strPtr("Avícola Chilca"),
		Telefono:    strPtr("964999888"),
	}
	sets, args, changes := buildUpdate(current, in)

	if len(sets) != 2 {
		t.Fatalf("both provided fields must be applied, got %v", sets)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %v", args)
	}
	if len(changes) != 1 {
		t.Fatalf("only the changed field produces history, got %v", changes)
	}
	ch := changes[0]
	if ch.Campo != "telefono" || ch.Anterior != "964111222" || ch.Nuevo != "964999888" {
		t.Fatalf("unexpected change record: %+v", ch)
	}
}

func TestBuildUpdatePlaceholdersFollowArgOrder(t *testing.T) {
	current := Customer{}
	in := CustomerUpdate{
		RazonSocial: strPtr("Nueva Razón"),
		Zona:        strPtr("norte"),
	}
	sets, args, _ := buildUpdate(current, in)
	if len(sets) != 2 || len(args) != 2 {
		t.Fatalf("expected 2 assignments, got %v / %v", sets, args)
	}
	if !strings.HasSuffix(sets[0], "$1") || !strings.HasSuffix(sets[1], "$2") {
		t.Fatalf("placeholders must follow argument order, got %v", sets)
	}
}

func TestBuildUpdateStringifiesCoordinates(t *testing.T) {
	lat := -12.068
	current := Customer{Latitud: &lat}
	in := CustomerUpdate{Latitud: floatPtr(-12.07)}
	_, _, changes := buildUpdate(current, in)

	if len(changes) != 1 {
		t.Fatalf("expected one change, got %v", changes)
	}
	if changes[0].Anterior != "-12.068" || changes[0].Nuevo != "-12.07" {
		t.Fatalf("coordinates must render without padding zeros: %+v", changes[0])
	}
}

func TestBuildUpdateComparesPreferencesBySerialization(t *testing.T) {
	current := Customer{Preferencias: &Preferencias{TipoHuevo: "rojo", FrecuenciaCompra: "semanal"}}

	same := CustomerUpdate{Preferencias: &Preferencias{TipoHuevo: "rojo", FrecuenciaCompra: "semanal"}}
	if _, _, changes := buildUpdate(current, same); len(changes) != 0 {
		t.Fatalf("identical preferences must not produce history, got %v", changes)
	}

	diff := CustomerUpdate{Preferencias: &Preferencias{TipoHuevo: "blanco"}}
	_, _, changes := buildUpdate(current, diff)
	if len(changes) != 1 || changes[0].Campo != "preferencias" {
		t.Fatalf("expected a preferencias change, got %v", changes)
	}
	if !strings.Contains(changes[0].Anterior, "rojo") || !strings.Contains(changes[0].Nuevo, "blanco") {
		t.Fatalf("expected serialized before/after values, got %+v", changes[0])
	}
}

func TestBuildUpdateClearsOptionalFieldWithNull(t *testing.T) {
	email := "ventas@chilca.pe"
	current := Customer{Email: &email}
	in := CustomerUpdate{Email: strPtr("")}
	sets, args, changes := buildUpdate(current, in)

	if len(sets) != 1 {
		t.Fatalf("expected one assignment, got %v", sets)
	}
	if args[0] != nil {
		t.Fatalf("empty string must be stored as NULL, got %v", args[0])
	}
	if len(changes) != 1 || changes[0].Anterior != email || changes[0].Nuevo != "" {
		t.Fatalf("expected cleared-value history entry, got %v", changes)
	}
}
