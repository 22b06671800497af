// Package export genera reportes XLSX a partir del documento del tenant.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/candelacafe/candela-api/internal/domain/entity"
)

// ReporteVentas arma un libro con dos hojas: Ventas e Inventario.
func ReporteVentas(doc entity.Documento) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const hojaVentas = "Ventas"
	if err := f.SetSheetName("Sheet1", hojaVentas); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}
	encabezados := []string{"ID", "Cliente", "Monto", "Kg", "Origen", "Estado", "Facturado", "Pagado"}
	for i, h := range encabezados {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hojaVentas, celda, h); err != nil {
			return nil, fmt.Errorf("escribir encabezado: %w", err)
		}
	}
	fila := 2
	for _, e := range doc.Array("ventas") {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		id, _ := entity.ElementoID(m)
		valores := []any{
			id,
			entity.Texto(m, "cliente"),
			entity.Numero(m, "monto"),
			entity.Numero(m, "kg"),
			entity.Texto(m, "origen"),
			entity.Texto(m, "estado"),
			entity.Booleano(m, "facturado"),
			entity.Booleano(m, "pagado"),
		}
		if err := escribirFila(f, hojaVentas, fila, valores); err != nil {
			return nil, err
		}
		fila++
	}

	const hojaInventario = "Inventario"
	if _, err := f.NewSheet(hojaInventario); err != nil {
		return nil, fmt.Errorf("crear hoja: %w", err)
	}
	encabezadosInv := []string{"Origen", "Stock (kg)", "Punto Reorden (kg)"}
	for i, h := range encabezadosInv {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hojaInventario, celda, h); err != nil {
			return nil, fmt.Errorf("escribir encabezado: %w", err)
		}
	}
	fila = 2
	for _, e := range doc.Array("inventario") {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		valores := []any{
			entity.Texto(m, "origen"),
			entity.Numero(m, "stockActual"),
			entity.Numero(m, "puntoReorden"),
		}
		if err := escribirFila(f, hojaInventario, fila, valores); err != nil {
			return nil, err
		}
		fila++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar xlsx: %w", err)
	}
	return buf, nil
}

func escribirFila(f *excelize.File, hoja string, fila int, valores []any) error {
	for i, v := range valores {
		celda, _ := excelize.CoordinatesToCellName(i+1, fila)
		if err := f.SetCellValue(hoja, celda, v); err != nil {
			return fmt.Errorf("escribir celda %s: %w", celda, err)
		}
	}
	return nil
}
