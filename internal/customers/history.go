package customers

import (
	"encoding/json"
	"strconv"
)

// fieldChange is one pending history entry: a field whose applied value
// differs from the stored one.
type fieldChange struct {
	Campo    string
	Anterior string
	Nuevo    string
}

// buildUpdate renders the dynamic SET fragments, their positionally aligned
// arguments and the list of actual value changes for a partial update.
// Fields absent from the input are left untouched; fields present but equal
// to the stored value are written without producing a history entry.
func buildUpdate(current Customer, in CustomerUpdate) (sets []string, args []any, changes []fieldChange) {
	b := updateBuilder{}

	if in.TipoDocumento != nil {
		b.set("tipo_documento", *in.TipoDocumento, current.TipoDocumento, *in.TipoDocumento)
	}
	if in.NumeroDocumento != nil {
		b.set("numero_documento", *in.NumeroDocumento, current.NumeroDocumento, *in.NumeroDocumento)
	}
	if in.RazonSocial != nil {
		b.set("razon_social", *in.RazonSocial, current.RazonSocial, *in.RazonSocial)
	}
	if in.NombreComercial != nil {
		b.set("nombre_comercial", optionalText(*in.NombreComercial), stringOrEmpty(current.NombreComercial), *in.NombreComercial)
	}
	if in.Telefono != nil {
		b.set("telefono", *in.Telefono, current.Telefono, *in.Telefono)
	}
	if in.Email != nil {
		b.set("email", optionalText(*in.Email), stringOrEmpty(current.Email), *in.Email)
	}
	if in.Direccion != nil {
		b.set("direccion", optionalText(*in.Direccion), stringOrEmpty(current.Direccion), *in.Direccion)
	}
	if in.Zona != nil {
		b.set("zona", optionalText(*in.Zona), stringOrEmpty(current.Zona), *in.Zona)
	}
	if in.TipoCliente != nil {
		b.set("tipo_cliente", *in.TipoCliente, current.TipoCliente, *in.TipoCliente)
	}
	if in.Preferencias != nil {
		b.set("preferencias", preferencesJSON(in.Preferencias), preferencesString(current.Preferencias), preferencesString(in.Preferencias))
	}
	if in.Latitud != nil {
		b.set("latitud", *in.Latitud, floatString(current.Latitud), floatString(in.Latitud))
	}
	if in.Longitud != nil {
		b.set("longitud", *in.Longitud, floatString(current.Longitud), floatString(in.Longitud))
	}

	return b.sets, b.args, b.changes
}

type updateBuilder struct {
	sets    []string
	args    []any
	changes []fieldChange
}

// set queues one column assignment and records a history entry when the
// stringified values differ. Preferences use serialized equality.
func (b *updateBuilder) set(column string, arg any, previous, next string) {
	b.args = append(b.args, arg)
	b.sets = append(b.sets, column+" = $"+strconv.Itoa(len(b.args)))
	if previous != next {
		b.changes = append(b.changes, fieldChange{Campo: column, Anterior: previous, Nuevo: next})
	}
}

// optionalText maps an empty string to NULL for nullable columns.
func optionalText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatString(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func preferencesString(p *Preferencias) string {
	if p == nil {
		return ""
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(raw)
}

// preferencesJSON renders the jsonb column value, NULL when unset.
func preferencesJSON(p *Preferencias) any {
	if p == nil {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	return raw
}
