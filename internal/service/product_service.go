package service

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-backend-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// broadcastLimit caps the product set pushed to live-update subscribers.
const broadcastLimit = 1000

type ProductService struct {
	productRepo ProductStore
	cartRepo    CartStore
	cache       ProductCache
	cacheTTL    time.Duration
	notifiers   []ProductNotifier
}

// NewProductService creates a new instance of ProductService. cache may be
// nil to disable the read-through cache; notifiers may be empty.
func NewProductService(productRepo ProductStore, cartRepo CartStore, cache ProductCache, cacheTTL time.Duration, notifiers ...ProductNotifier) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cartRepo:    cartRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		notifiers:   notifiers,
	}
}

// List returns one page of products matching the filter expression.
func (s *ProductService) List(ctx context.Context, params ListParams) (*Listing, error) {
	filter := buildFilter(params.Query)

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	listing := paginate(total, params)

	products, err := s.productRepo.List(ctx, entity.ProductQuery{
		Filter: filter,
		Sort:   sortOrder(params.Sort),
		Skip:   int64(params.Page-1) * int64(params.Limit),
		Limit:  int64(params.Limit),
	})
	if err != nil {
		return nil, err
	}

	listing.Products = products
	return listing, nil
}

// Get retrieves a single product, via the cache when one is configured.
func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	oid, err := parseObjectID(id, "product")
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			logger.Warn().Err(err).Msgf("Error reading product %s from cache", id)
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := s.productRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, product, s.cacheTTL); err != nil {
			logger.Warn().Err(err).Msgf("Error caching product %s", id)
		}
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, input entity.ProductInput) (*entity.Product, error) {
	if input.Title == "" {
		return nil, entity.Validationf("Product title is required")
	}
	if input.Code == "" {
		return nil, entity.Validationf("Product code is required")
	}
	if input.Price == nil {
		return nil, entity.Validationf("Product price is required")
	}

	product := &entity.Product{
		Title:       input.Title,
		Description: input.Description,
		Code:        input.Code,
		Price:       *input.Price,
		Status:      true,
		Stock:       input.Stock,
		Category:    input.Category,
		Thumbnails:  input.Thumbnails,
	}
	if input.Status != nil {
		product.Status = *input.Status
	}
	if product.Thumbnails == nil {
		product.Thumbnails = []string{}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.notifyProducts()
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, upd entity.ProductUpdate) (*entity.Product, error) {
	oid, err := parseObjectID(id, "product")
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.Update(ctx, oid, upd)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.notifyProducts()
	return product, nil
}

// Delete removes the product and pulls it from every cart referencing it.
func (s *ProductService) Delete(ctx context.Context, id string) (*entity.Product, error) {
	oid, err := parseObjectID(id, "product")
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.Delete(ctx, oid)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.PullProduct(ctx, oid); err != nil {
		logger.Error().Err(err).Msgf("Error removing deleted product %s from carts", id)
	}

	s.invalidate(ctx, id)
	s.notifyProducts()
	return product, nil
}

func (s *ProductService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, id); err != nil {
		logger.Warn().Err(err).Msgf("Error invalidating product %s in cache", id)
	}
}

// notifyProducts pushes the refreshed product set to every notifier,
// detached from the request that triggered it. Failures are logged only.
func (s *ProductService) notifyProducts() {
	if len(s.notifiers) == 0 {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		products, err := s.productRepo.List(ctx, entity.ProductQuery{Limit: broadcastLimit})
		if err != nil {
			logger.Error().Err(err).Msg("Error loading products for live update")
			return
		}

		for _, n := range s.notifiers {
			if err := n.PublishProducts(ctx, products); err != nil {
				logger.Error().Err(err).Msg("Error broadcasting product update")
			}
		}
	}()
}

func parseObjectID(id, kind string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, entity.Validationf("Invalid %s id", kind)
	}
	return oid, nil
}
