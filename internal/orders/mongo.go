package orders

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora_back_end/internal/models"
)

// MongoStore est l'implémentation MongoDB du Store
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (m *MongoStore) Insert(ctx context.Context, order *models.Order) error {
	_, err := m.col.InsertOne(ctx, order)
	return err
}

func (m *MongoStore) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	return m.findOne(ctx, bson.M{"_id": orderID})
}

// FindByIDForUser applique le filtre de propriété dans la requête : la
// commande d'un autre client n'est jamais matérialisée en mémoire.
func (m *MongoStore) FindByIDForUser(ctx context.Context, orderID, userEmail string) (*models.Order, error) {
	return m.findOne(ctx, bson.M{"_id": orderID, "user_email": userEmail})
}

func (m *MongoStore) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	err := m.col.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoStore) FindByUser(ctx context.Context, userEmail string, page, limit int) ([]models.Order, int64, error) {
	filter := bson.M{"user_email": userEmail}

	total, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func searchFilterToBson(f SearchFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"_id": re},
			bson.M{"user_email": re},
		}
	}
	return filter
}

func (m *MongoStore) Search(ctx context.Context, f SearchFilter, page, limit int) ([]models.Order, int64, error) {
	filter := searchFilterToBson(f)

	total, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Stats agrège compteurs et chiffre d'affaires sur tout l'ensemble filtré
func (m *MongoStore) Stats(ctx context.Context, f SearchFilter) (*models.OrderStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: searchFilterToBson(f)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$order_summary.total"}}},
		}}},
	}

	cursor, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status  string  `bson:"_id"`
		Count   int64   `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &models.OrderStats{ByStatus: make(map[string]int64)}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
		stats.TotalRevenue += row.Revenue
	}
	return stats, nil
}

// Update applique un patch par écriture conditionnelle sur version ($set
// unique + $inc version). Une version obsolète ressort en ErrConflict au
// lieu d'écraser silencieusement l'écriture concurrente.
func (m *MongoStore) Update(ctx context.Context, orderID string, version int64, patch Patch) error {
	set := bson.M{"updated_at": patch.UpdatedAt}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.EstimatedDelivery != nil {
		set["estimated_delivery"] = *patch.EstimatedDelivery
	}
	if patch.AdminNotes != nil {
		set["admin_notes"] = *patch.AdminNotes
	}
	if patch.CancelledAt != nil {
		set["cancelled_at"] = *patch.CancelledAt
	}
	if patch.CancellationReason != nil {
		set["cancellation_reason"] = *patch.CancellationReason
	}
	if patch.RefundDetails != nil {
		set["refund_details"] = *patch.RefundDetails
	}

	res, err := m.col.UpdateOne(ctx,
		bson.M{"_id": orderID, "version": version},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		count, err := m.col.CountDocuments(ctx, bson.M{"_id": orderID})
		if err == nil && count > 0 {
			return ErrConflict
		}
		return ErrNotFound
	}
	return nil
}
