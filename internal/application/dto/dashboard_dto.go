package dto

// Deduccion descuenta kg de un origen del inventario dentro de una venta local.
type Deduccion struct {
	Origen string  `json:"origen"`
	Kg     float64 `json:"kg"`
}

// VentaLocalRequest entrada de la transacción compuesta venta + inventario.
type VentaLocalRequest struct {
	Sale            map[string]any `json:"sale"`
	DeductInventory []Deduccion    `json:"deductInventory"`
}

// VentaLocalResponse ambos arrays actualizados tras la transacción.
type VentaLocalResponse struct {
	Sales     []any `json:"sales"`
	Inventory []any `json:"inventory"`
}

// MutacionVentaResponse resultado de un ciclo de estado o toggle sobre una venta.
// Venta es nil cuando el id no existía (no-op registrado, nunca fatal).
type MutacionVentaResponse struct {
	Success    bool           `json:"success"`
	Encontrada bool           `json:"encontrada"`
	Venta      map[string]any `json:"venta"`
}

// ProgresoMeta avance de una meta comercial, acotado a [0, 100].
type ProgresoMeta struct {
	Meta     float64 `json:"meta"`
	Actual   float64 `json:"actual"`
	Progreso float64 `json:"progreso"`
}

// ResumenResponse totales calculados del dashboard. Los montos son unidades
// enteras de moneda con IVA incluido; neto e IVA se derivan, nunca se almacenan.
type ResumenResponse struct {
	TotalVentas    float64                 `json:"totalVentas"`
	TotalPagado    float64                 `json:"totalPagado"`
	TotalPendiente float64                 `json:"totalPendiente"`
	SinFactura     int                     `json:"sinFactura"`
	TotalKg        float64                 `json:"totalKg"`
	Neto           float64                 `json:"neto"`
	IVA            float64                 `json:"iva"`
	Metas          map[string]ProgresoMeta `json:"metas,omitempty"`
}
