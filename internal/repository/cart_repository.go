package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shop-backend-service/internal/entity"
)

const cartCollection = "carts"

// ErrVersionConflict is returned by SaveProducts when another writer
// persisted the cart since it was read. Callers reload and retry.
var ErrVersionConflict = errors.New("cart was modified concurrently")

type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(cartCollection)}
}

func (r *CartRepository) Create(ctx context.Context) (*entity.Cart, error) {
	now := time.Now().UTC()
	cart := &entity.Cart{
		ID:        primitive.NewObjectID(),
		Products:  []entity.CartLine{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *CartRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Cart, error) {
	var cart entity.Cart
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.NotFoundf("Cart not found")
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// SaveProducts persists the cart's line list conditionally on the version
// the cart was read at. A zero match means a concurrent writer won and the
// in-memory copy is stale.
func (r *CartRepository) SaveProducts(ctx context.Context, cart *entity.Cart) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": cart.ID, "version": cart.Version},
		bson.M{
			"$set": bson.M{
				"products":   cart.Products,
				"updated_at": time.Now().UTC(),
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	cart.Version++
	return nil
}

// PullProduct removes every cart line referencing the product, across all
// carts. Used when a product is deleted from the catalog.
func (r *CartRepository) PullProduct(ctx context.Context, productID primitive.ObjectID) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"products.product": productID},
		bson.M{"$pull": bson.M{"products": bson.M{"product": productID}}},
	)
	return err
}
