package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bharathbhent-backend/internal/models"
)

type ProductFilter struct {
	Category models.Category
}

// ProductPatch holds the product fields an edit changes. Nil fields are left
// as stored, so stock is only written when Stock is set.
type ProductPatch struct {
	Name           *string
	Description    *string
	Price          *float64
	Images         []models.Image
	Category       *models.Category
	Stock          *int
	Dimensions     *models.Dimensions
	Material       *string
	DeliveryTime   *string
	ReturnPolicy   *string
	ShippingPolicy *string
	// Discount rewrites discountPercentage and discountPrice together.
	Discount *Discount
}

// Discount is a derived price; a nil Price removes the stored discountPrice.
type Discount struct {
	Percentage float64
	Price      *float64
}

func (p ProductPatch) update() bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Images != nil {
		set["images"] = p.Images
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Stock != nil {
		set["stock"] = *p.Stock
	}
	if p.Dimensions != nil {
		set["dimensions"] = *p.Dimensions
	}
	if p.Material != nil {
		set["material"] = *p.Material
	}
	if p.DeliveryTime != nil {
		set["deliveryTime"] = *p.DeliveryTime
	}
	if p.ReturnPolicy != nil {
		set["returnPolicy"] = *p.ReturnPolicy
	}
	if p.ShippingPolicy != nil {
		set["shippingPolicy"] = *p.ShippingPolicy
	}

	update := bson.M{}
	if d := p.Discount; d != nil {
		set["discountPercentage"] = d.Percentage
		if d.Price != nil {
			set["discountPrice"] = *d.Price
		} else {
			update["$unset"] = bson.M{"discountPrice": ""}
		}
	}
	if len(set) > 0 {
		update["$set"] = set
	}
	return update
}

// Apply writes the patched fields onto dst.
func (p ProductPatch) Apply(dst *models.Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Images != nil {
		dst.Images = append([]models.Image{}, p.Images...)
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.Stock != nil {
		dst.Stock = *p.Stock
	}
	if p.Dimensions != nil {
		dst.Dimensions = *p.Dimensions
	}
	if p.Material != nil {
		dst.Material = *p.Material
	}
	if p.DeliveryTime != nil {
		dst.DeliveryTime = *p.DeliveryTime
	}
	if p.ReturnPolicy != nil {
		dst.ReturnPolicy = *p.ReturnPolicy
	}
	if p.ShippingPolicy != nil {
		dst.ShippingPolicy = *p.ShippingPolicy
	}
	if d := p.Discount; d != nil {
		dst.DiscountPercentage = d.Percentage
		dst.DiscountPrice = nil
		if d.Price != nil {
			v := *d.Price
			dst.DiscountPrice = &v
		}
	}
}

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(m *MongoDB) *ProductRepository {
	return &ProductRepository{col: m.Products}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	_, err := r.col.InsertOne(ctx, p)
	return translate(err)
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindByIDs returns the products that exist among ids, keyed by id.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	out := make(map[primitive.ObjectID]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var p models.Product
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out[p.ID] = &p
	}
	return out, cur.Err()
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	cur, err := r.col.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Update writes only the patched fields and returns the stored product.
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, patch ProductPatch) (*models.Product, error) {
	update := patch.update()
	if len(update) == 0 {
		return r.FindByID(ctx, id)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Product
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// SaveReviews writes only the review fields so concurrent stock changes survive.
func (r *ProductRepository) SaveReviews(ctx context.Context, p *models.Product) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"reviews":      p.Reviews,
		"ratings":      p.Ratings,
		"numOfReviews": p.NumOfReviews,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
