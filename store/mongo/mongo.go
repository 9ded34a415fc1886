// Package mongo menyimpan katalog di MongoDB (koleksi products dan admin).
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog-admin/models"
	"catalog-admin/store"
)

type productDoc struct {
	ID             primitive.ObjectID          `bson:"_id,omitempty"`
	Name           string                      `bson:"name"`
	Description    string                      `bson:"description"`
	Slug           string                      `bson:"slug"`
	Price          primitive.Decimal128        `bson:"price"`
	Category       string                      `bson:"category"`
	StockQuantity  int                         `bson:"stock_quantity"`
	IsActive       bool                        `bson:"is_active"`
	ImageURL       string                      `bson:"image_url"`
	Images         []models.ProductImage       `bson:"images"`
	PrimaryImageID string                      `bson:"primary_image_id"`
	Translations   []models.ProductTranslation `bson:"translations"`
	CreatedAt      time.Time                   `bson:"created_at,omitempty"`
	UpdatedAt      time.Time                   `bson:"updated_at"`
}

type adminDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	Email     string             `bson:"email"`
	IsActive  bool               `bson:"is_active"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// Store adalah backend katalog MongoDB.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

// EnsureIndexes membuat indeks unik username dan indeks urutan produk.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(store.AdminTable).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return store.Remote("create admin index", err)
	}
	_, err = s.db.Collection(store.ProductsTable).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return store.Remote("create products index", err)
	}
	return nil
}

func (s *Store) products() *mongo.Collection { return s.db.Collection(store.ProductsTable) }

func (s *Store) admins() *mongo.Collection { return s.db.Collection(store.AdminTable) }

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.products().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, store.Remote("find products", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, store.Remote("decode products", err)
	}

	out := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (models.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, store.InvalidID("product")
	}

	var doc productDoc
	err = s.products().FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, store.ProductNotFound()
		}
		return models.Product{}, store.Remote("find product", err)
	}
	return doc.toModel(), nil
}

func (s *Store) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	doc, err := productFromModel(p)
	if err != nil {
		return models.Product{}, err
	}
	now := time.Now().UTC()
	doc.ID = primitive.NilObjectID
	doc.CreatedAt = now
	doc.UpdatedAt = now

	result, err := s.products().InsertOne(ctx, doc)
	if err != nil {
		return models.Product{}, store.Remote("insert product", err)
	}
	doc.ID = result.InsertedID.(primitive.ObjectID)
	return doc.toModel(), nil
}

func (s *Store) UpdateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return models.Product{}, store.InvalidID("product")
	}
	doc, err := productFromModel(p)
	if err != nil {
		return models.Product{}, err
	}
	doc.ID = primitive.NilObjectID
	doc.CreatedAt = time.Time{}
	doc.UpdatedAt = time.Now().UTC()

	result, err := s.products().UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": doc})
	if err != nil {
		return models.Product{}, store.Remote("update product", err)
	}
	if result.MatchedCount == 0 {
		return models.Product{}, store.ProductNotFound()
	}
	return s.GetProduct(ctx, p.ID)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.InvalidID("product")
	}
	result, err := s.products().DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return store.Remote("delete product", err)
	}
	if result.DeletedCount == 0 {
		return store.ProductNotFound()
	}
	return nil
}

func (s *Store) FindActiveAdmin(ctx context.Context, username string) (models.Admin, error) {
	var doc adminDoc
	err := s.admins().FindOne(ctx, bson.M{"username": username, "is_active": true}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Admin{}, store.AdminNotFound()
		}
		return models.Admin{}, store.Remote("find admin", err)
	}
	return doc.toModel(), nil
}

func (s *Store) CreateAdmin(ctx context.Context, a models.Admin) (models.Admin, error) {
	var existing adminDoc
	err := s.admins().FindOne(ctx, bson.M{"username": a.Username}).Decode(&existing)
	if err == nil {
		return models.Admin{}, store.UsernameTaken()
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Admin{}, store.Remote("find admin", err)
	}

	now := time.Now().UTC()
	doc := adminDoc{
		Username:  a.Username,
		Password:  a.PasswordHash,
		Email:     a.Email,
		IsActive:  a.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	result, err := s.admins().InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Admin{}, store.UsernameTaken()
		}
		return models.Admin{}, store.Remote("insert admin", err)
	}
	doc.ID = result.InsertedID.(primitive.ObjectID)
	return doc.toModel(), nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	cursor, err := s.admins().Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return nil, store.Remote("find admins", err)
	}
	defer cursor.Close(ctx)

	var docs []adminDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, store.Remote("decode admins", err)
	}
	out := make([]models.Admin, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.InvalidID("admin")
	}
	result, err := s.admins().DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return store.Remote("delete admin", err)
	}
	if result.DeletedCount == 0 {
		return store.AdminNotFound()
	}
	return nil
}

// Stats menghitung jumlah produk, jumlah admin, dan nilai persediaan (price * stock).
func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	totalProducts, err := s.products().CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.Stats{}, store.Remote("count products", err)
	}
	totalAdmins, err := s.admins().CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.Stats{}, store.Remote("count admins", err)
	}

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": bson.M{"$multiply": []string{"$price", "$stock_quantity"}}},
		}},
	}
	cursor, err := s.products().Aggregate(ctx, pipeline)
	if err != nil {
		return models.Stats{}, store.Remote("aggregate stats", err)
	}
	defer cursor.Close(ctx)

	var result []bson.M
	if err = cursor.All(ctx, &result); err != nil {
		return models.Stats{}, store.Remote("decode stats", err)
	}

	total := decimal.Zero
	if len(result) > 0 {
		total = toDecimal(result[0]["total"])
	}
	return models.Stats{TotalProducts: totalProducts, TotalAdmins: totalAdmins, TotalValue: total}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func productFromModel(p models.Product) (productDoc, error) {
	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return productDoc{}, fmt.Errorf("convert price: %w", err)
	}
	return productDoc{
		Name:           p.Name,
		Description:    p.Description,
		Slug:           p.Slug,
		Price:          price,
		Category:       p.Category,
		StockQuantity:  p.StockQuantity,
		IsActive:       p.IsActive,
		ImageURL:       p.ImageURL,
		Images:         nonNilImages(p.Images),
		PrimaryImageID: p.PrimaryImageID,
		Translations:   p.Translations,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}, nil
}

func (d productDoc) toModel() models.Product {
	return models.Product{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Description:    d.Description,
		Slug:           d.Slug,
		Price:          toDecimal(d.Price),
		Category:       d.Category,
		StockQuantity:  d.StockQuantity,
		IsActive:       d.IsActive,
		ImageURL:       d.ImageURL,
		Images:         nonNilImages(d.Images),
		PrimaryImageID: d.PrimaryImageID,
		Translations:   d.Translations,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (d adminDoc) toModel() models.Admin {
	return models.Admin{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.Password,
		Email:        d.Email,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toDecimal(v interface{}) decimal.Decimal {
	switch n := v.(type) {
	case primitive.Decimal128:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case float64:
		return decimal.NewFromFloat(n)
	default:
		return decimal.Zero
	}
}

func nonNilImages(imgs []models.ProductImage) []models.ProductImage {
	if imgs == nil {
		return []models.ProductImage{}
	}
	return imgs
}
