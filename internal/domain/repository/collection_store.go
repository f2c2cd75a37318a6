package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jhoicas/anbar-api/internal/domain/entity"
)

// CollectionStore define el puerto de persistencia por colección completa (DIP).
// Los registros son objetos JSON con las claves del modelo de datos; el almacenamiento no valida.
type CollectionStore interface {
	// Load devuelve todos los registros crudos de la colección (vacío si no existe).
	Load(ctx context.Context, kind entity.Kind) ([]json.RawMessage, error)
	// Save reemplaza la colección completa de forma atómica: o se ven todos los registros o ninguno.
	Save(ctx context.Context, kind entity.Kind, records []json.RawMessage) error
}

// Write reemplazo completo de una colección.
type Write struct {
	Kind    entity.Kind
	Records []json.RawMessage
}

// BatchStore opcional: escribe varias colecciones en una sola transacción nativa.
// Usado por el ledger para confirmar cantidad y movimiento juntos.
type BatchStore interface {
	SaveBatch(ctx context.Context, writes ...Write) error
}

// ChangeNotifier opcional: avisa qué colección cambió. Los avisos son orientativos;
// el canal se cierra al cancelar ctx. Perder un aviso no compromete la consistencia.
type ChangeNotifier interface {
	Subscribe(ctx context.Context) (<-chan entity.Kind, error)
}

// ErrCorruptCollection el contenido almacenado de una colección no es un arreglo JSON.
// El adaptador lo registra y trata la colección como vacía.
var ErrCorruptCollection = errors.New("colección corrupta en el almacenamiento")
