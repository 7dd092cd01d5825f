package reports

import "time"

// ZonaReport aggregates the customer base for one city zone.
type ZonaReport struct {
	Zona               string `json:"zona"`
	NombreZona         string `json:"nombre_zona"`
	TotalClientes      int    `json:"total_clientes"`
	Activos            int    `json:"activos"`
	Inactivos          int    `json:"inactivos"`
	PersonasNaturales  int    `json:"personas_naturales"`
	PersonasJuridicas  int    `json:"personas_juridicas"`
	Empresas           int    `json:"empresas"`
	PorcentajeDelTotal int    `json:"porcentaje_del_total"`
}

// ZonaTotales are the roster-wide counters accompanying the zone breakdown.
type ZonaTotales struct {
	General   int `json:"general"`
	Activos   int `json:"activos"`
	Inactivos int `json:"inactivos"`
}

type ZonaReportResult struct {
	Data    []ZonaReport `json:"data"`
	Totales ZonaTotales  `json:"totales"`
}

// TipoReport crosses customer type with lifecycle state.
type TipoReport struct {
	Tipo       string `json:"tipo"`
	NombreTipo string `json:"nombre_tipo"`
	Total      int    `json:"total"`
	Activos    int    `json:"activos"`
	Inactivos  int    `json:"inactivos"`
	Porcentaje int    `json:"porcentaje"`
}

type TipoReportResult struct {
	Data         []TipoReport `json:"data"`
	TotalGeneral int          `json:"total_general"`
}

// PreferenciasReport groups customers by each stated preference dimension.
// The wire names of the bucket keys differ per dimension, matching the API.
type PreferenciasReport struct {
	TipoHuevo        []TipoHuevoSlice  `json:"tipo_huevo"`
	FrecuenciaCompra []FrecuenciaSlice `json:"frecuencia_compra"`
	Horario          []HorarioSlice    `json:"horario"`
}

type TipoHuevoSlice struct {
	Tipo     string `json:"tipo"`
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}

type FrecuenciaSlice struct {
	Frecuencia string `json:"frecuencia"`
	Nombre     string `json:"nombre"`
	Cantidad   int    `json:"cantidad"`
}

type HorarioSlice struct {
	Horario  string `json:"horario"`
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}

// EvolucionMes counts new customers in one calendar month, split by kind.
type EvolucionMes struct {
	Mes            string `json:"mes"`
	MesNombre      string `json:"mes_nombre"`
	NuevosClientes int    `json:"nuevos_clientes"`
	NuevasPersonas int    `json:"nuevas_personas"`
	NuevasEmpresas int    `json:"nuevas_empresas"`
}

// TopCliente ranks a customer by declared purchase frequency.
type TopCliente struct {
	ID              int64     `json:"id"`
	RazonSocial     string    `json:"razon_social"`
	NombreComercial *string   `json:"nombre_comercial"`
	TipoDocumento   string    `json:"tipo_documento"`
	NumeroDocumento string    `json:"numero_documento"`
	Telefono        string    `json:"telefono"`
	Email           *string   `json:"email"`
	Zona            *string   `json:"zona"`
	TipoCliente     string    `json:"tipo_cliente"`
	Estado          string    `json:"estado"`
	CreadoEl        time.Time `json:"creado_el"`
	Frecuencia      *string   `json:"frecuencia"`
}

// FullReport bundles every report for the overview screen.
type FullReport struct {
	ClientesPorZona  ZonaReportResult   `json:"clientes_por_zona"`
	ClientesPorTipo  TipoReportResult   `json:"clientes_por_tipo"`
	Preferencias     PreferenciasReport `json:"preferencias"`
	EvolucionMensual []EvolucionMes     `json:"evolucion_mensual"`
	TopClientes      []TopCliente       `json:"top_clientes"`
	Metadata         ReportMetadata     `json:"metadata"`
}

type ReportMetadata struct {
	FechaGeneracion time.Time `json:"fecha_generacion"`
	GeneradoPor     string    `json:"generado_por"`
}
