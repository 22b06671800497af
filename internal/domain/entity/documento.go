package entity

// CamposArray enumera los arrays conocidos del documento por tenant.
// Todo campo ausente se trata como secuencia vacía, nunca como error.
var CamposArray = []string{
	"ventas",
	"gastos",
	"clientes",
	"tareas",
	"inventario",
	"calendario",
	"ventasLocales",
	"ventasWeb",
	"cierresCaja",
	"planesAccion",
	"agentes",
}

// EsArrayConocido indica si nombre pertenece a la lista de arrays del documento.
func EsArrayConocido(nombre string) bool {
	for _, c := range CamposArray {
		if c == nombre {
			return true
		}
	}
	return false
}

// Documento es el estado JSON completo de un tenant. Se modela como mapa laxo
// porque la UI guarda campos ad-hoc por elemento: un esquema estático los
// perdería al reescribir el documento. Los defaults (arrays vacíos, booleanos
// false) se aplican en la frontera del adaptador vía Normalizar, no en cada
// punto de uso.
type Documento map[string]any

// NuevoDocumento crea un documento vacío con todos los arrays conocidos inicializados.
func NuevoDocumento() Documento {
	d := Documento{}
	d.Normalizar()
	return d
}

// Normalizar garantiza que cada array conocido exista como secuencia vacía.
// Debe llamarse al leer desde cualquier backend.
func (d Documento) Normalizar() {
	for _, campo := range CamposArray {
		if _, ok := d[campo].([]any); !ok {
			if _, existe := d[campo]; !existe {
				d[campo] = []any{}
			}
		}
	}
}

// Array devuelve el array nombrado; si falta o tiene un tipo inesperado devuelve vacío.
func (d Documento) Array(nombre string) []any {
	if v, ok := d[nombre].([]any); ok {
		return v
	}
	return []any{}
}

// SetArray reemplaza el array nombrado.
func (d Documento) SetArray(nombre string, elementos []any) {
	d[nombre] = elementos
}

// BuscarPorID localiza el elemento con el id dado dentro del array nombrado.
// Devuelve el elemento y true, o nil y false si no existe.
func (d Documento) BuscarPorID(nombre string, id int64) (map[string]any, bool) {
	for _, e := range d.Array(nombre) {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if eid, ok := ElementoID(m); ok && eid == id {
			return m, true
		}
	}
	return nil, false
}

// ElementoID extrae el id de un elemento. Los ids llegan como timestamps en
// milisegundos (float64 tras decodificar JSON) y caben exactos en int64.
func ElementoID(m map[string]any) (int64, bool) {
	v, existe := m["id"]
	if !existe {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

// Numero lee un campo numérico de un elemento; ausente o de tipo inesperado -> 0.
func Numero(m map[string]any, clave string) float64 {
	switch n := m[clave].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Texto lee un campo string de un elemento; ausente -> "".
func Texto(m map[string]any, clave string) string {
	s, _ := m[clave].(string)
	return s
}

// Booleano lee un flag de un elemento; ausente -> false.
func Booleano(m map[string]any, clave string) bool {
	b, _ := m[clave].(bool)
	return b
}
