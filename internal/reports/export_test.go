package reports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "github.com/avecor-crm/avecor-crm/testing"
)

func TestWriteTopClientesCSV(t *testing.T) {
	zona := "centro"
	frecuencia := "diario"
	rows := []TopCliente{
		{
			ID:              1,
			RazonSocial:     "Distribuidora El Tambo SAC",
			TipoDocumento:   "RUC",
			NumeroDocumento: "20456789123",
			Telefono:        "964333444",
			Zona:            &zona,
			TipoCliente:     "empresa",
			Estado:          "activo",
			CreadoEl:        time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
			Frecuencia:      &frecuencia,
		},
		{
			ID:              2,
			RazonSocial:     "Jorge Paucar Soto",
			TipoDocumento:   "DNI",
			NumeroDocumento: "41234567",
			Telefono:        "964555666",
			TipoCliente:     "persona_natural",
			Estado:          "activo",
			CreadoEl:        time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	out, err := NewExporter().WriteTopClientesCSV(rows)
	require.NoError(t, err)
	require.True(t, bytes.Contains(out, []byte("\r\n")), "expected CRLF line endings")

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus 2 rows")

	require.Equal(t, "id", records[0][0])
	require.Equal(t, "razon_social", records[0][1])
	require.Equal(t, "frecuencia", records[0][11])

	require.Equal(t, "20456789123", records[1][4])
	require.Equal(t, "2026-03-15", records[1][10])
	require.Equal(t, "diario", records[1][11])

	// Optional fields render as empty cells.
	require.Empty(t, records[2][6])
	require.Empty(t, records[2][7])
	require.Empty(t, records[2][11])
}

func TestWriteZonasCSVAppendsTotalsFooter(t *testing.T) {
	result := ZonaReportResult{
		Data: []ZonaReport{
			{Zona: "centro", NombreZona: "Centro (Huancayo)", TotalClientes: 12, Activos: 10, Inactivos: 2,
				PersonasNaturales: 8, PersonasJuridicas: 1, Empresas: 3, PorcentajeDelTotal: 60},
			{Zona: "sur", NombreZona: "Sur (Chilca)", TotalClientes: 8, Activos: 7, Inactivos: 1,
				PersonasNaturales: 5, PersonasJuridicas: 2, Empresas: 1, PorcentajeDelTotal: 40},
		},
		Totales: ZonaTotales{General: 20, Activos: 17, Inactivos: 3},
	}

	out, err := NewExporter().WriteZonasCSV(result)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header, 2 zones and a footer")

	require.Equal(t, "centro", records[1][0])
	require.Equal(t, "12", records[1][2])

	footer := records[3]
	require.Equal(t, "total", footer[0])
	require.Equal(t, "20", footer[2])
	require.Equal(t, "17", footer[3])
	require.Equal(t, "3", footer[4])
}
