package models

import "time"

// Transaction types as stored in Mongo. Sign lives here, never in Monto.
const (
	TipoGasto   = "gasto"
	TipoIngreso = "ingreso"
)

// CategoriasValidas is the closed category set. Order matters: user-facing
// listings and prompts follow it.
var CategoriasValidas = []string{
	"salud", "limpieza", "alimentacion", "transporte",
	"salidas", "ropa", "plantas", "arreglos casa", "vacaciones",
}

// Movement is the only persisted entity. Records are immutable once inserted.
type Movement struct {
	ChatID          int64     `bson:"chat_id" json:"chat_id"`
	Tipo            string    `bson:"tipo" json:"tipo"`
	Monto           float64   `bson:"monto" json:"monto"`
	Categoria       string    `bson:"categoria" json:"categoria"`
	MensajeOriginal string    `bson:"mensaje_original" json:"mensaje_original"`
	Fecha           time.Time `bson:"fecha" json:"fecha"`
}

// ExportedMovement is the export-endpoint view of a Movement: no Mongo id,
// Fecha flattened to a human-readable string.
type ExportedMovement struct {
	ChatID          int64   `json:"chat_id"`
	Tipo            string  `json:"tipo"`
	Monto           float64 `json:"monto"`
	Categoria       string  `json:"categoria"`
	MensajeOriginal string  `json:"mensaje_original"`
	Fecha           string  `json:"fecha"`
}

// ExportFechaLayout is the timestamp format used by the export feed.
const ExportFechaLayout = "2006-01-02 15:04:05"

func IsValidCategoria(categoria string) bool {
	for _, c := range CategoriasValidas {
		if c == categoria {
			return true
		}
	}
	return false
}

// CategoriaBalance is one row of the general report: a category and its
// net balance (ingresos - gastos). Kept as a slice to preserve the
// aggregation order coming out of the store.
type CategoriaBalance struct {
	Categoria string
	Saldo     float64
}
