package search

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func stageKey(stage bson.D) string {
	if len(stage) == 0 {
		return ""
	}
	return stage[0].Key
}

func findStage(t *testing.T, pipeline []bson.D, key string) bson.D {
	t.Helper()
	for _, stage := range pipeline {
		if stageKey(stage) == key {
			return stage
		}
	}
	t.Fatalf("pipeline has no %s stage", key)
	return nil
}

func firstMatch(t *testing.T, pipeline []bson.D) bson.M {
	t.Helper()
	stage := findStage(t, pipeline, "$match")
	match, ok := stage[0].Value.(bson.M)
	require.True(t, ok, "$match value must be bson.M")
	return match
}

func TestBuildDefaultsPagination(t *testing.T) {
	q, err := Build(SpareParts(), url.Values{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), q.Page)
	assert.Equal(t, int64(20), q.Limit)
}

func TestBuildIgnoresInvalidPagination(t *testing.T) {
	params := url.Values{"page": {"-3"}, "limit": {"abc"}}
	q, err := Build(SpareParts(), params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), q.Page)
	assert.Equal(t, int64(20), q.Limit)
}

func TestBuildGeoStageLeadsPipeline(t *testing.T) {
	params := url.Values{
		"location": {"30.1,31.2"},
		"radius":   {"10"},
	}
	q, err := Build(Services(), params)
	require.NoError(t, err)

	require.NotEmpty(t, q.Pipeline)
	assert.Equal(t, "$geoNear", stageKey(q.Pipeline[0]))

	near := q.Pipeline[0][0].Value.(bson.M)
	assert.Equal(t, float64(10_000), near["maxDistance"])
	point := near["near"].(bson.M)
	assert.Equal(t, []float64{31.2, 30.1}, point["coordinates"])
	// visibility filter rides in the geo query when $geoNear leads
	assert.Equal(t, bson.M{"status": "approved"}, near["query"])
}

func TestBuildRejectsMalformedLocation(t *testing.T) {
	params := url.Values{
		"location": {"not-a-pair"},
		"radius":   {"5"},
	}
	_, err := Build(Services(), params)
	assert.Error(t, err)
}

func TestBuildSkipsGeoWithoutRadius(t *testing.T) {
	params := url.Values{"location": {"30.1,31.2"}}
	q, err := Build(Services(), params)
	require.NoError(t, err)
	assert.NotEqual(t, "$geoNear", stageKey(q.Pipeline[0]))
	// base visibility match still applies without the geo stage
	assert.Equal(t, "approved", firstMatch(t, q.Pipeline)["status"])
}

func TestBuildUnknownEnumFailsClosed(t *testing.T) {
	params := url.Values{
		"condition":    {"Slightly Broken"},
		"locationCity": {"Cairo"},
	}
	q, err := Build(SpareParts(), params)
	require.NoError(t, err)

	match := firstMatch(t, q.Pipeline)
	assert.Equal(t, bson.M{"$in": bson.A{}}, match["_id"])
}

func TestBuildUnknownPriceTypeFailsClosed(t *testing.T) {
	params := url.Values{"priceType": {"barter"}}
	q, err := Build(SpareParts(), params)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$in": bson.A{}}, firstMatch(t, q.Pipeline)["_id"])
}

func TestBuildPriceTypeNegotiable(t *testing.T) {
	params := url.Values{"priceType": {"negotiable"}}
	q, err := Build(SpareParts(), params)
	require.NoError(t, err)

	match := firstMatch(t, q.Pipeline)
	assert.Equal(t, false, match["fixedPrice"])
	assert.Equal(t, true, match["negotiablePrice"])
}

func TestBuildRangeMergesIntoOneCondition(t *testing.T) {
	params := url.Values{
		"minPrice": {"100"},
		"maxPrice": {"500"},
	}
	q, err := Build(SpareParts(), params)
	require.NoError(t, err)

	match := firstMatch(t, q.Pipeline)
	assert.Equal(t, bson.M{"$gte": float64(100), "$lte": float64(500)}, match["price"])
}

func TestBuildIgnoresNonNumericRange(t *testing.T) {
	params := url.Values{"minPrice": {"cheap"}}
	q, err := Build(SpareParts(), params)
	require.NoError(t, err)
	for _, stage := range q.Pipeline {
		if stageKey(stage) != "$match" {
			continue
		}
		match := stage[0].Value.(bson.M)
		assert.NotContains(t, match, "price")
	}
}

func TestBuildCSVBecomesInClause(t *testing.T) {
	params := url.Values{"partType": {"Engine, Hydraulics ,"}}
	q, err := Build(SpareParts(), params)
	require.NoError(t, err)

	match := firstMatch(t, q.Pipeline)
	assert.Equal(t, bson.M{"$in": []string{"Engine", "Hydraulics"}}, match["partCategory"])
}

func TestBuildExperienceRangePair(t *testing.T) {
	params := url.Values{"experienceRange": {"5-15"}}
	q, err := Build(Businesses(), params)
	require.NoError(t, err)

	match := firstMatch(t, q.Pipeline)
	assert.Equal(t, bson.M{"$gte": float64(5), "$lte": float64(15)}, match["years_of_experience"])
}

func TestBuildCountPipelineHasNoSortOrPagination(t *testing.T) {
	params := url.Values{"minPrice": {"10"}}
	q, err := Build(SpareParts(), params)
	require.NoError(t, err)

	for _, stage := range q.CountPipeline {
		key := stageKey(stage)
		assert.NotEqual(t, "$sort", key)
		assert.NotEqual(t, "$skip", key)
		assert.NotEqual(t, "$limit", key)
	}
	last := q.CountPipeline[len(q.CountPipeline)-1]
	assert.Equal(t, "$count", stageKey(last))
}

func TestBuildSortFallsBackToDefault(t *testing.T) {
	params := url.Values{"sortBy": {"sideways"}}
	q, err := Build(Services(), params)
	require.NoError(t, err)

	sort := findStage(t, q.Pipeline, "$sort")
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, sort[0].Value)
}

func TestBuildNamedSortSelected(t *testing.T) {
	params := url.Values{"sortBy": {"lowest_price"}}
	q, err := Build(Services(), params)
	require.NoError(t, err)

	sort := findStage(t, q.Pipeline, "$sort")
	assert.Equal(t, bson.D{{Key: "pricing.amount", Value: 1}}, sort[0].Value)
}

func TestBuildKeywordBuildsOrRegex(t *testing.T) {
	params := url.Values{"keyword": {"excavator"}}
	q, err := Build(Machinery(), params)
	require.NoError(t, err)

	var found bool
	for _, stage := range q.Pipeline {
		if stageKey(stage) != "$match" {
			continue
		}
		match := stage[0].Value.(bson.M)
		if or, ok := match["$or"].(bson.A); ok {
			found = true
			assert.Len(t, or, 4)
		}
	}
	assert.True(t, found, "keyword $or match missing")
}

func TestBuildBusinessesRegroupsAfterJoin(t *testing.T) {
	q, err := Build(Businesses(), url.Values{})
	require.NoError(t, err)

	group := findStage(t, q.Pipeline, "$group")
	spec := group[0].Value.(bson.D)
	assert.Equal(t, "_id", spec[0].Key)
	assert.Equal(t, "$_id", spec[0].Value)
}

func TestBuildTruthyBoolOnlyFiltersWhenTrue(t *testing.T) {
	q, err := Build(Machinery(), url.Values{"verified_suppliers": {"false"}})
	require.NoError(t, err)
	for _, stage := range q.Pipeline {
		if stageKey(stage) != "$match" {
			continue
		}
		assert.NotContains(t, stage[0].Value.(bson.M), "business.verified")
	}

	q, err = Build(Machinery(), url.Values{"verified_suppliers": {"true"}})
	require.NoError(t, err)
	var seen bool
	for _, stage := range q.Pipeline {
		if stageKey(stage) != "$match" {
			continue
		}
		if v, ok := stage[0].Value.(bson.M)["business.verified"]; ok {
			seen = true
			assert.Equal(t, true, v)
		}
	}
	assert.True(t, seen)
}
