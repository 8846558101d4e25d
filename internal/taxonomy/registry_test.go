package taxonomy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type recordedOp struct {
	name   string
	filter bson.M
	upsert bool
}

// fakeCollection records every update the registry issues, in order.
type fakeCollection struct {
	ops []recordedOp
}

func (f *fakeCollection) UpdateByID(ctx context.Context, id interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.ops = append(f.ops, recordedOp{name: "updateByID", filter: bson.M{"_id": id}, upsert: hasUpsert(opts)})
	return &mongo.UpdateResult{}, nil
}

func (f *fakeCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	m, _ := filter.(bson.M)
	f.ops = append(f.ops, recordedOp{name: "updateOne", filter: m, upsert: hasUpsert(opts)})
	return &mongo.UpdateResult{}, nil
}

func (f *fakeCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.M{"_id": registryID}, nil, nil)
}

func hasUpsert(opts []*options.UpdateOptions) bool {
	for _, o := range opts {
		if o != nil && o.Upsert != nil && *o.Upsert {
			return true
		}
	}
	return false
}

func TestAddValuesUpdateUsesAddToSet(t *testing.T) {
	filter, update := addValuesUpdate("serviceCategories", []string{"Welding", " Welding ", ""})
	require.NotNil(t, update)

	assert.Equal(t, registryID, filter["_id"])

	addToSet, ok := update["$addToSet"].(bson.M)
	require.True(t, ok, "expected $addToSet update")
	each, ok := addToSet["serviceCategories"].(bson.M)
	require.True(t, ok)
	// $addToSet dedupes server-side, so repeated values in one call are fine;
	// blanks must never reach the registry.
	assert.Equal(t, []string{"Welding", "Welding"}, each["$each"])
}

func TestAddValuesUpdateSkipsEmptyInput(t *testing.T) {
	filter, update := addValuesUpdate("certifications", []string{"", "   "})
	assert.Nil(t, filter)
	assert.Nil(t, update)
}

func TestEnsureTreeCategoryUpdateGuardsOnAbsence(t *testing.T) {
	filter, update := ensureTreeCategoryUpdate("rawMaterialCategories", "Ceramics")
	require.NotNil(t, update)

	// The $ne guard is what keeps two concurrent first registrations of the
	// same category from double-appending: document updates serialize, and
	// the second update's filter no longer matches.
	guard, ok := filter["rawMaterialCategories.category"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "Ceramics", guard["$ne"])

	push, ok := update["$push"].(bson.M)
	require.True(t, ok)
	entry, ok := push["rawMaterialCategories"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "Ceramics", entry["category"])
	assert.Empty(t, entry["subCategories"])
}

func TestAddToTreeUpdateTargetsMatchedEntry(t *testing.T) {
	filter, update := addToTreeUpdate("sparePartCategories", "Engine", "compatibleBrands", []string{"Volvo"})
	require.NotNil(t, update)

	assert.Equal(t, "Engine", filter["sparePartCategories.category"])

	addToSet, ok := update["$addToSet"].(bson.M)
	require.True(t, ok)
	each, ok := addToSet["sparePartCategories.$.compatibleBrands"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, []string{"Volvo"}, each["$each"])
}

func TestTreeRegistrationSeedsDocumentFirst(t *testing.T) {
	fake := &fakeCollection{}
	reg := &Registry{col: fake}

	err := reg.AddRawMaterialCategory(context.Background(), "Ceramics", "Tiles")
	require.NoError(t, err)
	require.NotEmpty(t, fake.ops)

	// The category push is guarded by $ne and never upserts, so it silently
	// matches nothing unless the registry document already exists. The seeding
	// upsert therefore has to come first.
	assert.Equal(t, "updateByID", fake.ops[0].name)
	assert.True(t, fake.ops[0].upsert)

	pushAt := -1
	for i, op := range fake.ops {
		guard, ok := op.filter["rawMaterialCategories.category"].(bson.M)
		if ok && guard["$ne"] == "Ceramics" {
			pushAt = i
		}
	}
	require.NotEqual(t, -1, pushAt, "expected the Ceramics push to be issued")
	assert.Greater(t, pushAt, 0)
}

func TestSeedRunsOncePerRegistry(t *testing.T) {
	fake := &fakeCollection{}
	reg := &Registry{col: fake}

	require.NoError(t, reg.AddRawMaterialCategory(context.Background(), "Ceramics", "Tiles"))
	require.NoError(t, reg.AddSparePartCategory(context.Background(), "Engine", "Filters", nil, nil))

	seeds := 0
	for _, op := range fake.ops {
		if op.name == "updateByID" {
			seeds++
		}
	}
	assert.Equal(t, 1, seeds)
}

func TestTreeUpdatesSkipBlankCategory(t *testing.T) {
	_, update := ensureTreeCategoryUpdate("rawMaterialCategories", "  ")
	assert.Nil(t, update)

	_, update = addToTreeUpdate("rawMaterialCategories", "", "subCategories", []string{"Steel"})
	assert.Nil(t, update)
}
