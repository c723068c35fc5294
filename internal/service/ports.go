package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-backend-service/internal/entity"
)

// ProductStore is the persistence port for the product catalog,
// implemented by repository.ProductRepository.
type ProductStore interface {
	List(ctx context.Context, q entity.ProductQuery) ([]entity.Product, error)
	Count(ctx context.Context, f entity.ProductFilter) (int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]entity.Product, error)
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, id primitive.ObjectID, upd entity.ProductUpdate) (*entity.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*entity.Product, error)
}

// CartStore is the persistence port for carts, implemented by
// repository.CartRepository.
type CartStore interface {
	Create(ctx context.Context) (*entity.Cart, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Cart, error)
	SaveProducts(ctx context.Context, cart *entity.Cart) error
	PullProduct(ctx context.Context, productID primitive.ObjectID) error
}

// ProductCache fronts single-product reads. A miss is (nil, nil).
type ProductCache interface {
	Get(ctx context.Context, id string) (*entity.Product, error)
	Set(ctx context.Context, p *entity.Product, ttl time.Duration) error
	Del(ctx context.Context, id string) error
}

// ProductNotifier receives the refreshed product set after every catalog
// mutation. Implementations live in internal/notifier.
type ProductNotifier interface {
	PublishProducts(ctx context.Context, products []entity.Product) error
}
