package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/candelacafe/candela-api/internal/application/dto"
	"github.com/candelacafe/candela-api/internal/domain"
	"github.com/candelacafe/candela-api/internal/domain/entity"
	"github.com/candelacafe/candela-api/internal/domain/repository"
	"github.com/candelacafe/candela-api/pkg/logger"
)

// UseCase agrupa los operadores de mutación atómica sobre el documento del
// tenant. Cada operador es un ciclo leer-modificar-escribir ejecutado dentro
// de Mutar del repositorio, que lo serializa por tenant.
type UseCase struct {
	documentos repository.RepositorioDocumentos
	log        *logger.Logger
}

// NewUseCase construye el caso de uso del dashboard.
func NewUseCase(documentos repository.RepositorioDocumentos, log *logger.Logger) *UseCase {
	return &UseCase{documentos: documentos, log: log}
}

// Obtener devuelve el documento completo del tenant (vacío si no existe).
func (uc *UseCase) Obtener(ctx context.Context, usuarioID string) (entity.Documento, error) {
	return uc.documentos.Obtener(ctx, usuarioID)
}

// Sobrescribir reemplaza el documento completo. Es destructivo por contrato:
// todo campo ausente en el cuerpo desaparece del documento persistido.
func (uc *UseCase) Sobrescribir(ctx context.Context, usuarioID string, doc entity.Documento) error {
	doc.Normalizar()
	return uc.documentos.Guardar(ctx, usuarioID, doc)
}

// Agregar inserta un elemento al FRENTE del array nombrado (orden más nuevo
// primero) y devuelve el array completo actualizado, para que el cliente
// reemplace su copia local sin un segundo viaje.
func (uc *UseCase) Agregar(ctx context.Context, usuarioID, nombre string, elemento map[string]any) ([]any, error) {
	if !entity.EsArrayConocido(nombre) {
		return nil, domain.ErrEntradaInvalida
	}
	if elemento == nil {
		elemento = map[string]any{}
	}
	asegurarID(elemento)
	var actualizado []any
	err := uc.documentos.Mutar(ctx, usuarioID, func(doc entity.Documento) error {
		actual := doc.Array(nombre)
		actualizado = append([]any{elemento}, actual...)
		doc.SetArray(nombre, actualizado)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("tenant", usuarioID).Str("array", nombre).Int("len", len(actualizado)).Msg("elemento agregado")
	return actualizado, nil
}

// Actualizar aplica mut al elemento con el id dado. Un id inexistente es un
// no-op registrado, nunca un error: las acciones de la UI pueden competir con
// borrados. Devuelve si el elemento fue encontrado y su estado final.
func (uc *UseCase) Actualizar(ctx context.Context, usuarioID, nombre string, id int64, mut func(map[string]any)) (map[string]any, bool, error) {
	if !entity.EsArrayConocido(nombre) {
		return nil, false, domain.ErrEntradaInvalida
	}
	var elemento map[string]any
	encontrado := false
	err := uc.documentos.Mutar(ctx, usuarioID, func(doc entity.Documento) error {
		if m, ok := doc.BuscarPorID(nombre, id); ok {
			mut(m)
			elemento = m
			encontrado = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !encontrado {
		uc.log.Warn().Str("tenant", usuarioID).Str("array", nombre).Int64("id", id).Msg("elemento no encontrado, mutación omitida")
	}
	return elemento, encontrado, nil
}

// CicloEstado avanza el estado de la venta al siguiente del ciclo
// iniciada -> proceso -> entregada -> iniciada.
func (uc *UseCase) CicloEstado(ctx context.Context, usuarioID string, ventaID int64) (*dto.MutacionVentaResponse, error) {
	venta, encontrada, err := uc.Actualizar(ctx, usuarioID, "ventas", ventaID, func(m map[string]any) {
		m["estado"] = entity.SiguienteEstado(entity.Texto(m, "estado"))
	})
	if err != nil {
		return nil, err
	}
	return &dto.MutacionVentaResponse{Success: true, Encontrada: encontrada, Venta: venta}, nil
}

// ToggleCampo alterna uno de los flags facturado/pagado de la venta. Los flags
// son independientes entre sí y del estado del ciclo de vida.
func (uc *UseCase) ToggleCampo(ctx context.Context, usuarioID string, ventaID int64, campo string) (*dto.MutacionVentaResponse, error) {
	if !entity.EsCampoToggleVenta(campo) {
		return nil, domain.ErrEntradaInvalida
	}
	venta, encontrada, err := uc.Actualizar(ctx, usuarioID, "ventas", ventaID, func(m map[string]any) {
		m[campo] = !entity.Booleano(m, campo)
	})
	if err != nil {
		return nil, err
	}
	return &dto.MutacionVentaResponse{Success: true, Encontrada: encontrada, Venta: venta}, nil
}

// VentaLocal es la transacción compuesta: agrega la venta AL FINAL de
// ventasLocales (orden más viejo primero, a diferencia de Agregar) y descuenta
// cada deducción del inventario, con piso en cero. Ambas mutaciones se
// calculan en memoria y se persisten en una sola escritura: un corte entre la
// venta y el descuento dejaría el inventario sobreestimado respecto a las
// ventas registradas.
func (uc *UseCase) VentaLocal(ctx context.Context, usuarioID string, in dto.VentaLocalRequest) (*dto.VentaLocalResponse, error) {
	venta := in.Sale
	if venta == nil {
		venta = map[string]any{}
	}
	asegurarID(venta)
	out := &dto.VentaLocalResponse{}
	err := uc.documentos.Mutar(ctx, usuarioID, func(doc entity.Documento) error {
		ventas := append(doc.Array("ventasLocales"), any(venta))
		doc.SetArray("ventasLocales", ventas)

		inventario := doc.Array("inventario")
		for _, d := range in.DeductInventory {
			if !uc.deducir(inventario, d) {
				uc.log.Warn().Str("tenant", usuarioID).Str("origen", d.Origen).Msg("origen no encontrado en inventario, deducción omitida")
			}
		}
		doc.SetArray("inventario", inventario)

		out.Sales = ventas
		out.Inventory = inventario
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// deducir descuenta kg del primer registro de inventario cuyo origen coincide
// (sin distinguir mayúsculas). El stock nunca baja de cero.
func (uc *UseCase) deducir(inventario []any, d dto.Deduccion) bool {
	for _, e := range inventario {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if !strings.EqualFold(entity.Texto(m, "origen"), d.Origen) {
			continue
		}
		restante := entity.Numero(m, "stockActual") - d.Kg
		if restante < 0 {
			restante = 0
		}
		m["stockActual"] = restante
		return true
	}
	return false
}

// asegurarID asigna un id de timestamp en milisegundos si el elemento no trae
// uno, igual que hace el cliente al crear registros.
func asegurarID(m map[string]any) {
	if _, ok := entity.ElementoID(m); !ok {
		m["id"] = float64(time.Now().UnixMilli())
	}
}
