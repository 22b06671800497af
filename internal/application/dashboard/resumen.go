package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/candelacafe/candela-api/internal/application/dto"
	"github.com/candelacafe/candela-api/internal/domain/entity"
)

// tasaIVA: los montos se almacenan con IVA incluido a tasa fija del 19%.
// Neto e IVA se derivan siempre (neto = monto / 1.19), nunca se almacenan.
var tasaIVA = decimal.NewFromFloat(1.19)

// Resumen calcula los totales del dashboard a partir del documento: montos
// pagados y pendientes, kilos vendidos, desglose neto/IVA y avance de metas.
func (uc *UseCase) Resumen(ctx context.Context, usuarioID string) (*dto.ResumenResponse, error) {
	doc, err := uc.documentos.Obtener(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	pagado := decimal.Zero
	pendiente := decimal.Zero
	sinFactura := 0
	totalKg := 0.0
	kgPorTipo := map[string]float64{}

	for _, e := range doc.Array("ventas") {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		monto := decimal.NewFromFloat(entity.Numero(m, "monto"))
		total = total.Add(monto)
		if entity.Booleano(m, "pagado") {
			pagado = pagado.Add(monto)
		} else {
			pendiente = pendiente.Add(monto)
		}
		if !entity.Booleano(m, "facturado") {
			sinFactura++
		}
		kg := entity.Numero(m, "kg")
		totalKg += kg
		if tipo := entity.Texto(m, "tipo"); tipo != "" {
			kgPorTipo[tipo] += kg
		}
	}

	neto := total.Div(tasaIVA).Round(2)
	iva := total.Sub(neto)

	return &dto.ResumenResponse{
		TotalVentas:    total.InexactFloat64(),
		TotalPagado:    pagado.InexactFloat64(),
		TotalPendiente: pendiente.InexactFloat64(),
		SinFactura:     sinFactura,
		TotalKg:        totalKg,
		Neto:           neto.InexactFloat64(),
		IVA:            iva.InexactFloat64(),
		Metas:          progresoMetas(doc, kgPorTipo),
	}, nil
}

// progresoMetas calcula el avance por meta comercial: kilos vendidos del tipo
// correspondiente sobre la meta configurada, acotado a [0, 100].
func progresoMetas(doc entity.Documento, kgPorTipo map[string]float64) map[string]dto.ProgresoMeta {
	metas, ok := doc["metas"].(map[string]any)
	if !ok || len(metas) == 0 {
		return nil
	}
	out := map[string]dto.ProgresoMeta{}
	for clave, v := range metas {
		cfg, ok := v.(map[string]any)
		if !ok {
			continue
		}
		objetivo := entity.Numero(cfg, "meta")
		actual := kgPorTipo[clave]
		progreso := 0.0
		if objetivo > 0 {
			progreso = actual / objetivo * 100
		}
		out[clave] = dto.ProgresoMeta{
			Meta:     objetivo,
			Actual:   actual,
			Progreso: acotar(progreso),
		}
	}
	return out
}

// acotar limita un porcentaje al rango [0, 100].
func acotar(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
