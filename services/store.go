package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Edunzz/monedillo/config"
	"github.com/Edunzz/monedillo/models"
)

// MovementStore persists movements and answers the aggregate queries the
// bot needs. Records are append-only: there is no update or delete path.
type MovementStore struct {
	coll *mongo.Collection
}

func NewMovementStore(client *mongo.Client, cfg *config.Config) *MovementStore {
	return &MovementStore{
		coll: client.Database(cfg.MongoDatabase).Collection(config.MovimientosCollection),
	}
}

// Insert appends one movement with a server-assigned UTC timestamp. No
// dedup: the same message recorded twice creates two documents.
func (s *MovementStore) Insert(ctx context.Context, chatID int64, tipo string, monto float64, categoria, mensajeOriginal string) error {
	mov := models.Movement{
		ChatID:          chatID,
		Tipo:            tipo,
		Monto:           monto,
		Categoria:       categoria,
		MensajeOriginal: mensajeOriginal,
		Fecha:           time.Now().UTC(),
	}
	if _, err := s.coll.InsertOne(ctx, mov); err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}

type tipoTotal struct {
	Tipo  string  `bson:"_id"`
	Total float64 `bson:"total"`
}

// Saldo returns ingresos - gastos for one chat and category. A category
// with no records yields 0.
func (s *MovementStore) Saldo(ctx context.Context, chatID int64, categoria string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "chat_id", Value: chatID},
			{Key: "categoria", Value: categoria},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tipo"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$monto"}}},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate saldo: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []tipoTotal
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode saldo results: %w", err)
	}

	var saldo float64
	for _, row := range rows {
		switch row.Tipo {
		case models.TipoIngreso:
			saldo += row.Total
		case models.TipoGasto:
			saldo -= row.Total
		}
	}
	return saldo, nil
}

type categoriaTipoTotal struct {
	ID struct {
		Categoria string `bson:"categoria"`
		Tipo      string `bson:"tipo"`
	} `bson:"_id"`
	Total float64 `bson:"total"`
}

// ReporteGeneral returns the net balance per category for one chat,
// covering only categories with at least one record. The slice keeps the
// order the aggregation produced the groups in.
func (s *MovementStore) ReporteGeneral(ctx context.Context, chatID int64) ([]models.CategoriaBalance, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "chat_id", Value: chatID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "categoria", Value: "$categoria"},
				{Key: "tipo", Value: "$tipo"},
			}},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$monto"}}},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reporte: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []categoriaTipoTotal
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode reporte results: %w", err)
	}

	index := make(map[string]int)
	var saldos []models.CategoriaBalance
	for _, row := range rows {
		i, seen := index[row.ID.Categoria]
		if !seen {
			i = len(saldos)
			index[row.ID.Categoria] = i
			saldos = append(saldos, models.CategoriaBalance{Categoria: row.ID.Categoria})
		}
		switch row.ID.Tipo {
		case models.TipoIngreso:
			saldos[i].Saldo += row.Total
		case models.TipoGasto:
			saldos[i].Saldo -= row.Total
		}
	}
	return saldos, nil
}

// Export returns every movement whose fecha falls in the inclusive
// [desde, hasta] window. A nil bound leaves that side open. Mongo ids are
// stripped and fecha is flattened to the export layout.
func (s *MovementStore) Export(ctx context.Context, desde, hasta *time.Time) ([]models.ExportedMovement, error) {
	filter := bson.D{}
	if desde != nil || hasta != nil {
		rangeFilter := bson.D{}
		if desde != nil {
			rangeFilter = append(rangeFilter, bson.E{Key: "$gte", Value: *desde})
		}
		if hasta != nil {
			rangeFilter = append(rangeFilter, bson.E{Key: "$lte", Value: *hasta})
		}
		filter = append(filter, bson.E{Key: "fecha", Value: rangeFilter})
	}

	cursor, err := s.coll.Find(ctx, filter, options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer cursor.Close(ctx)

	var movs []models.Movement
	if err := cursor.All(ctx, &movs); err != nil {
		return nil, fmt.Errorf("failed to decode movements: %w", err)
	}

	exported := make([]models.ExportedMovement, 0, len(movs))
	for _, m := range movs {
		exported = append(exported, models.ExportedMovement{
			ChatID:          m.ChatID,
			Tipo:            m.Tipo,
			Monto:           m.Monto,
			Categoria:       m.Categoria,
			MensajeOriginal: m.MensajeOriginal,
			Fecha:           m.Fecha.UTC().Format(models.ExportFechaLayout),
		})
	}
	return exported, nil
}
