package inventory

import (
	"context"

	"github.com/hubbi/inventario-core/internal/domain/movement"
)

// DataProvider es la única frontera del núcleo de transacciones: arma la foto
// de estado para la solicitud (ítem, bodegas, stock en la bodega resuelta,
// estado del serial, vencimiento del lote) y persiste movimientos preparados.
// Si el ítem no existe, GetState devuelve error (el manager no lo captura;
// sube al caller).
type DataProvider interface {
	GetState(ctx context.Context, req movement.Request) (movement.State, error)
	PersistMovement(ctx context.Context, tx *movement.PreparedTransaction) error
}

// BatchDataProvider es un upgrade opcional del provider: persiste un lote de
// transacciones con semántica atómica (todo o nada es responsabilidad del provider).
type BatchDataProvider interface {
	DataProvider
	PersistBatch(ctx context.Context, txs []*movement.PreparedTransaction) error
}
