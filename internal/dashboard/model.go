package dashboard

import "time"

// KPIs are the headline counters across every lifecycle state.
type KPIs struct {
	TotalClientes      int `json:"total_clientes"`
	ClientesActivos    int `json:"clientes_activos"`
	ClientesInactivos  int `json:"clientes_inactivos"`
	ClientesEliminados int `json:"clientes_eliminados"`
	NuevosHoy          int `json:"nuevos_hoy"`
	PorcentajeActivos  int `json:"porcentaje_activos"`
}

// TipoSlice is one wedge of the customer-type distribution.
type TipoSlice struct {
	Tipo       string `json:"tipo"`
	Nombre     string `json:"nombre"`
	Cantidad   int    `json:"cantidad"`
	Porcentaje int    `json:"porcentaje"`
}

// ZonaCalor is one city zone with its customer count scaled into heat levels.
type ZonaCalor struct {
	Zona       string  `json:"zona"`
	Nombre     string  `json:"nombre"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Clientes   int     `json:"clientes"`
	Intensidad float64 `json:"intensidad"`
	NivelCalor int     `json:"nivel_calor"`
}

// MapaCalor is the zone heat map plus its aggregates.
type MapaCalor struct {
	Zonas              []ZonaCalor `json:"zonas"`
	TotalClientesZonas int         `json:"total_clientes_zonas"`
	ZonaConMasClientes ZonaCalor   `json:"zona_con_mas_clientes"`
}

// TendenciaMes pairs new and lost customers for one calendar month.
type TendenciaMes struct {
	Mes       string `json:"mes"`
	MesNombre string `json:"mes_nombre"`
	Nuevos    int    `json:"nuevos"`
	Perdidos  int    `json:"perdidos"`
	SaldoNeto int    `json:"saldo_neto"`
}

// TotalesPeriodo summarises the whole trend window.
type TotalesPeriodo struct {
	Nuevos          int `json:"nuevos"`
	Perdidos        int `json:"perdidos"`
	CrecimientoNeto int `json:"crecimiento_neto"`
	TasaCrecimiento int `json:"tasa_crecimiento"`
}

// Tendencias is the monthly trend series with its period totals.
type Tendencias struct {
	Mensual        []TendenciaMes `json:"mensual"`
	TotalesPeriodo TotalesPeriodo `json:"totales_periodo"`
}

// DistritoSlice maps a zone onto its district with share of the total.
type DistritoSlice struct {
	Distrito   string `json:"distrito"`
	Zona       string `json:"zona"`
	Clientes   int    `json:"clientes"`
	Porcentaje int    `json:"porcentaje"`
}

// Metadata stamps a snapshot with its build context.
type Metadata struct {
	FechaActualizacion time.Time `json:"fecha_actualizacion"`
	PeriodoTendencias  string    `json:"periodo_tendencias"`
	ZonaPrincipal      string    `json:"zona_principal"`
}

// Snapshot is the composite management dashboard payload.
type Snapshot struct {
	KPIs                  KPIs            `json:"kpis"`
	DistribucionTipos     []TipoSlice     `json:"distribucion_tipos"`
	MapaCalor             MapaCalor       `json:"mapa_calor"`
	Tendencias            Tendencias      `json:"tendencias"`
	DistribucionDistritos []DistritoSlice `json:"distribucion_distritos"`
	Metadata              Metadata        `json:"metadata"`
}
