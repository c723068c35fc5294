package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop-backend-service/internal/entity"
)

const productCollection = "products"

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(productCollection)}
}

// bsonFilter translates the structured listing filter into a mongo filter
// document. The substring match is quoted so user input is never executed
// as a regular expression.
func bsonFilter(f entity.ProductFilter) bson.M {
	filter := bson.M{}
	switch {
	case f.Category != nil:
		filter["category"] = *f.Category
	case f.Status != nil:
		filter["status"] = *f.Status
	case f.StockGT != nil:
		filter["stock"] = bson.M{"$gt": *f.StockGT}
	case f.StockEq != nil:
		filter["stock"] = *f.StockEq
	case f.Text != "":
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Text), Options: "i"}
		or := bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}
		if f.TextInCategory {
			or = append(or, bson.M{"category": re})
		}
		filter["$or"] = or
	}
	return filter
}

func (r *ProductRepository) List(ctx context.Context, q entity.ProductQuery) ([]entity.Product, error) {
	opts := options.Find().SetSkip(q.Skip).SetLimit(q.Limit)
	if q.Sort != entity.SortNone {
		opts.SetSort(bson.D{{Key: "price", Value: q.Sort}})
	}

	cur, err := r.col.Find(ctx, bsonFilter(q.Filter), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []entity.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context, f entity.ProductFilter) (int64, error) {
	return r.col.CountDocuments(ctx, bsonFilter(f))
}

func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error) {
	var p entity.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.NotFoundf("Product not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDs fetches products in bulk, keyed by id. Missing ids are simply
// absent from the result.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]entity.Product, error) {
	result := make(map[primitive.ObjectID]entity.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var products []entity.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return entity.Conflictf("Product code %q already exists", p.Code)
	}
	return err
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, upd entity.ProductUpdate) (*entity.Product, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Code != nil {
		set["code"] = *upd.Code
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Stock != nil {
		set["stock"] = *upd.Stock
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Thumbnails != nil {
		set["thumbnails"] = *upd.Thumbnails
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p entity.Product
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.NotFoundf("Product not found")
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, entity.Conflictf("Product code already exists")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (*entity.Product, error) {
	var p entity.Product
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.NotFoundf("Product not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
