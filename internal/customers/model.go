package customers

import "time"

// Estado values for the customer lifecycle. Eliminado is a soft-delete marker,
// never a row removal.
const (
	EstadoActivo    = "activo"
	EstadoInactivo  = "inactivo"
	EstadoEliminado = "eliminado"
)

// Sentinel filter values meaning "do not filter".
const (
	FiltroTodos = "todos"
	FiltroTodas = "todas"
)

// Customer is the central CRM entity. JSON names match the public API.
type Customer struct {
	ID              int64         `json:"id"`
	TipoDocumento   string        `json:"tipo_documento"`
	NumeroDocumento string        `json:"numero_documento"`
	RazonSocial     string        `json:"razon_social"`
	NombreComercial *string       `json:"nombre_comercial,omitempty"`
	Telefono        string        `json:"telefono"`
	Email           *string       `json:"email,omitempty"`
	Direccion       *string       `json:"direccion,omitempty"`
	Zona            *string       `json:"zona,omitempty"`
	TipoCliente     string        `json:"tipo_cliente"`
	Preferencias    *Preferencias `json:"preferencias,omitempty"`
	Latitud         *float64      `json:"latitud,omitempty"`
	Longitud        *float64      `json:"longitud,omitempty"`
	Estado          string        `json:"estado"`
	CreadoPor       int64         `json:"creado_por"`
	CreadoEl        time.Time     `json:"creado_el"`
	ActualizadoPor  *int64        `json:"actualizado_por,omitempty"`
	ActualizadoEl   *time.Time    `json:"actualizado_el,omitempty"`

	// Display names resolved by LEFT JOIN against usuarios.
	CreadoPorNombre      *string `json:"creado_por_nombre,omitempty"`
	ActualizadoPorNombre *string `json:"actualizado_por_nombre,omitempty"`
}

// Preferencias captures the optional stated purchase preferences. A nil
// pointer means "no stated preference", which is distinct from empty defaults.
type Preferencias struct {
	TipoHuevo        string `json:"tipo_huevo,omitempty" validate:"omitempty,oneof=blanco rojo mixto"`
	FrecuenciaCompra string `json:"frecuencia_compra,omitempty" validate:"omitempty,oneof=diario semanal quincenal mensual"`
	HorarioPreferido string `json:"horario_preferido,omitempty" validate:"omitempty,oneof=mañana tarde"`
	Observaciones    string `json:"observaciones,omitempty" validate:"omitempty,max=500"`
}

// CustomerWithHistory is the detail view: the row plus its audit trail,
// ordered by change timestamp descending.
type CustomerWithHistory struct {
	Customer
	Historial []HistoryRecord `json:"historial"`
}

// HistoryRecord is one immutable field-level audit entry as displayed,
// with the changer resolved to a username.
type HistoryRecord struct {
	ID            int64     `json:"id"`
	Campo         string    `json:"campo"`
	ValorAnterior string    `json:"valor_anterior"`
	ValorNuevo    string    `json:"valor_nuevo"`
	CambiadoPor   *string   `json:"cambiado_por"`
	CambiadoEl    time.Time `json:"cambiado_el"`
}

// CustomerSummary is the reduced row returned by quick search.
type CustomerSummary struct {
	ID              int64   `json:"id"`
	TipoDocumento   string  `json:"tipo_documento"`
	NumeroDocumento string  `json:"numero_documento"`
	RazonSocial     string  `json:"razon_social"`
	Telefono        string  `json:"telefono"`
	Zona            *string `json:"zona,omitempty"`
	Estado          string  `json:"estado"`
}
