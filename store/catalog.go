package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/models"
)

// ErrProductNotFound is returned by GetByID and PriceOf for ids with no
// matching product.
var ErrProductNotFound = errors.New("product not found")

// Catalog reads and maintains the product catalog. The cart and checkout
// paths only ever read from it.
type Catalog struct {
	Collection *mongo.Collection
}

// NewCatalog creates a Catalog backed by the "products" collection.
func NewCatalog(client *mongo.Client) *Catalog {
	collection := client.Database("storefront").Collection("products")
	return &Catalog{
		Collection: collection,
	}
}

// GetByID retrieves a single product.
func (c *Catalog) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := c.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

// PriceOf returns the current price of a product in minor currency units.
func (c *Catalog) PriceOf(ctx context.Context, id primitive.ObjectID) (int64, error) {
	product, err := c.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return product.Price, nil
}

// List returns products newest first. A non-empty keyword filters by
// case-insensitive substring match on the name.
func (c *Catalog) List(ctx context.Context, keyword string) ([]models.Product, error) {
	filter := bson.M{}
	if keyword != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: keyword, Options: "i"}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Create inserts a new product and returns it with its assigned id.
func (c *Catalog) Create(ctx context.Context, product models.Product) (*models.Product, error) {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	result, err := c.Collection.InsertOne(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	product.ID = result.InsertedID.(primitive.ObjectID)
	return &product, nil
}

// Update replaces the mutable fields of a product.
func (c *Catalog) Update(ctx context.Context, id primitive.ObjectID, product models.Product) error {
	update := bson.M{"$set": bson.M{
		"name":        product.Name,
		"price":       product.Price,
		"description": product.Description,
		"image_url":   product.ImageURL,
	}}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product. Existing cart entries for it survive: pricing
// skips them and checkout falls back to the add-time price snapshot.
func (c *Catalog) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
