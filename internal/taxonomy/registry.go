package taxonomy

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greenova/internal/models"
)

// The registry is a single document under a fixed id. All writes are
// server-side set operations, so concurrent listing creates that introduce
// the same value leave exactly one entry.
const registryID = "taxonomy"

const collectionName = "dynamic_fields"

// Seed values the registry starts with on first touch.
var (
	defaultServiceCategories = []string{
		"Maintenance", "Consulting", "Automation", "Installation",
		"Inspection", "Repair", "Training",
	}
	defaultCertifications = []string{
		"ISO Certification", "Safety Certifications",
		"Quality Assurance Certifications",
	}
	defaultMachineTypes  = []string{"Industrial"}
	defaultMachineBrands = []string{"Volvo", "Caterpillar", "John Deere", "Komatsu"}

	defaultRawMaterialCategories = []models.CategoryTree{
		{Category: "Metal", SubCategories: []string{"Steel", "Aluminum", "Copper", "Brass", "Titanium"}},
		{Category: "Plastic", SubCategories: []string{"Polyethylene", "Polycarbonate", "PVC", "Acrylic", "Nylon"}},
		{Category: "Wood", SubCategories: []string{"Pine", "Oak", "Maple", "Birch", "Walnut"}},
		{Category: "Chemicals", SubCategories: []string{"Acids", "Bases", "Solvents", "Polymers", "Catalysts"}},
	}
)

// collection is the slice of *mongo.Collection the registry touches. Narrowed
// to an interface so tests can record the ordering of update operations.
type collection interface {
	UpdateByID(ctx context.Context, id interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
}

type Registry struct {
	col collection

	mu     sync.Mutex
	seeded bool
}

func New(db *mongo.Database) *Registry {
	return &Registry{col: db.Collection(collectionName)}
}

// Get returns the registry document, creating and seeding it when missing.
func (r *Registry) Get(ctx context.Context) (models.DynamicField, error) {
	if err := r.ensureSeeded(ctx); err != nil {
		return models.DynamicField{}, err
	}

	var doc models.DynamicField
	err := r.col.FindOne(ctx, bson.M{"_id": registryID}).Decode(&doc)
	return doc, err
}

// ensureSeeded creates the registry document with its defaults when missing.
// Runs before the first read and before the first tree update, because the
// tree updates are non-upsert and silently match nothing without the document.
// The flag is only set after a fully successful pass, so a failed seed is
// retried on the next call.
func (r *Registry) ensureSeeded(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seeded {
		return nil
	}

	seed := bson.M{
		"$setOnInsert": bson.M{
			"sparePartCategories": []models.SparePartTree{},
			"createdAt":           time.Now().UTC(),
		},
		"$addToSet": bson.M{
			"serviceCategories": bson.M{"$each": defaultServiceCategories},
			"certifications":    bson.M{"$each": defaultCertifications},
			"machine_types":     bson.M{"$each": defaultMachineTypes},
			"machine_brands":    bson.M{"$each": defaultMachineBrands},
		},
	}
	_, err := r.col.UpdateByID(ctx, registryID, seed, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}

	// Tree defaults need the per-category ensure pass; a plain $addToSet on
	// struct values would duplicate entries that differ only in subcategories.
	for _, tree := range defaultRawMaterialCategories {
		if err := r.ensureTreeCategory(ctx, "rawMaterialCategories", tree.Category); err != nil {
			return err
		}
		if len(tree.SubCategories) > 0 {
			if err := r.addToTree(ctx, "rawMaterialCategories", tree.Category, "subCategories", tree.SubCategories); err != nil {
				return err
			}
		}
	}

	r.seeded = true
	return nil
}

// AddServiceCategory records a service category if unseen.
func (r *Registry) AddServiceCategory(ctx context.Context, category string) error {
	return r.addValues(ctx, "serviceCategories", []string{category})
}

// AddCertifications records any unseen certification tags.
func (r *Registry) AddCertifications(ctx context.Context, certifications []string) error {
	return r.addValues(ctx, "certifications", certifications)
}

// AddMachine records the type, brand, and model of a machinery listing.
func (r *Registry) AddMachine(ctx context.Context, machineType, brand, model string) error {
	if err := r.addValues(ctx, "machine_types", []string{machineType}); err != nil {
		return err
	}
	if err := r.addValues(ctx, "machine_brands", []string{brand}); err != nil {
		return err
	}
	return r.addValues(ctx, "machine_models", []string{model})
}

// AddSparePartCategory records a spare-part category with its subcategory and
// compatibility lists.
func (r *Registry) AddSparePartCategory(ctx context.Context, category, subCategory string, brands, modelNames []string) error {
	if err := r.ensureSeeded(ctx); err != nil {
		return err
	}
	if err := r.ensureTreeCategory(ctx, "sparePartCategories", category); err != nil {
		return err
	}
	if err := r.addToTree(ctx, "sparePartCategories", category, "subCategories", []string{subCategory}); err != nil {
		return err
	}
	if err := r.addToTree(ctx, "sparePartCategories", category, "compatibleBrands", brands); err != nil {
		return err
	}
	return r.addToTree(ctx, "sparePartCategories", category, "compatibleModels", modelNames)
}

// AddRawMaterialCategory records a raw-material category/subcategory pair.
func (r *Registry) AddRawMaterialCategory(ctx context.Context, category, subCategory string) error {
	if err := r.ensureSeeded(ctx); err != nil {
		return err
	}
	if err := r.ensureTreeCategory(ctx, "rawMaterialCategories", category); err != nil {
		return err
	}
	return r.addToTree(ctx, "rawMaterialCategories", category, "subCategories", []string{subCategory})
}

func (r *Registry) addValues(ctx context.Context, field string, values []string) error {
	filter, update := addValuesUpdate(field, values)
	if update == nil {
		return nil
	}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *Registry) ensureTreeCategory(ctx context.Context, field, category string) error {
	filter, update := ensureTreeCategoryUpdate(field, category)
	if update == nil {
		return nil
	}
	// No upsert here: ensureSeeded has run by the time any tree update fires,
	// and an upsert on the $ne filter would spawn a second registry document.
	_, err := r.col.UpdateOne(ctx, filter, update)
	return err
}

func (r *Registry) addToTree(ctx context.Context, field, category, subField string, values []string) error {
	filter, update := addToTreeUpdate(field, category, subField, values)
	if update == nil {
		return nil
	}
	_, err := r.col.UpdateOne(ctx, filter, update)
	return err
}

// addValuesUpdate builds the $addToSet update for a flat value list. Blank
// values are dropped; a nil update means there is nothing to record.
func addValuesUpdate(field string, values []string) (bson.M, bson.M) {
	cleaned := cleanValues(values)
	if len(cleaned) == 0 {
		return nil, nil
	}
	filter := bson.M{"_id": registryID}
	update := bson.M{
		"$addToSet": bson.M{field: bson.M{"$each": cleaned}},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	return filter, update
}

// ensureTreeCategoryUpdate pushes an empty category entry only when no entry
// with that category exists. Updates to one document are serialized by the
// server, so the $ne filter cannot pass twice for the same category.
func ensureTreeCategoryUpdate(field, category string) (bson.M, bson.M) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, nil
	}
	filter := bson.M{
		"_id":               registryID,
		field + ".category": bson.M{"$ne": category},
	}
	update := bson.M{
		"$push": bson.M{field: bson.M{"category": category, "subCategories": []string{}}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return filter, update
}

// addToTreeUpdate appends unseen values into a list on the matched category
// entry via the positional operator.
func addToTreeUpdate(field, category, subField string, values []string) (bson.M, bson.M) {
	category = strings.TrimSpace(category)
	cleaned := cleanValues(values)
	if category == "" || len(cleaned) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"_id":               registryID,
		field + ".category": category,
	}
	update := bson.M{
		"$addToSet": bson.M{field + ".$." + subField: bson.M{"$each": cleaned}},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	return filter, update
}

func cleanValues(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
