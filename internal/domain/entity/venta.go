package entity

// Estados del ciclo de vida de una venta.
const (
	EstadoIniciada  = "iniciada"
	EstadoProceso   = "proceso"
	EstadoEntregada = "entregada"
)

// ordenEstados define el ciclo iniciada -> proceso -> entregada -> iniciada.
// Desde entregada se vuelve a iniciada: es un toggle circular de corrección,
// no un estado terminal bloqueante.
var ordenEstados = []string{EstadoIniciada, EstadoProceso, EstadoEntregada}

// SiguienteEstado avanza al siguiente estado módulo 3. Un estado desconocido o
// vacío se trata como anterior a iniciada, por lo que avanza a iniciada.
func SiguienteEstado(actual string) string {
	idx := -1
	for i, e := range ordenEstados {
		if e == actual {
			idx = i
			break
		}
	}
	return ordenEstados[(idx+1)%len(ordenEstados)]
}

// CamposToggleVenta son los flags booleanos de una venta que se alternan de
// forma independiente entre sí y del estado del ciclo de vida.
var CamposToggleVenta = []string{"facturado", "pagado"}

// EsCampoToggleVenta indica si campo es uno de los flags alternables de venta.
func EsCampoToggleVenta(campo string) bool {
	for _, c := range CamposToggleVenta {
		if c == campo {
			return true
		}
	}
	return false
}
