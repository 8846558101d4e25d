package search

import (
	"go.mongodb.org/mongo-driver/bson"

	"greenova/internal/models"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

var conditions = []string{models.ConditionNew, models.ConditionUsed, models.ConditionRefurbished}

var stockStates = []string{models.AvailabilityInStock, models.AvailabilityOutOfStock, models.AvailabilityOnOrder}

// Machinery is the filter table for machinery-sale listings.
func Machinery() Spec {
	return Spec{
		BaseMatch: bson.M{"status": models.StatusApproved},
		Local: []Field{
			{Param: "machine_name", Path: "machine_name", Kind: Text},
			{Param: "machine_type", Path: "machine_type", Kind: Text},
			{Param: "brand", Path: "brand", Kind: Text},
			{Param: "condition", Path: "condition", Kind: Enum, Allowed: conditions},
			{Param: "model_year_min", Path: "model_year", Kind: Min},
			{Param: "model_year_max", Path: "model_year", Kind: Max},
			{Param: "min_price", Path: "price", Kind: Min},
			{Param: "max_price", Path: "price", Kind: Max},
			{Param: "fixed_price", Path: "fixed_price", Kind: Bool},
			{Param: "negotiable_price", Path: "negotiable_price", Kind: Bool},
			{Param: "location_country", Path: "location_country", Kind: Text},
			{Param: "location_city", Path: "location_city", Kind: Text},
			{Param: "availability", Path: "availability", Kind: Enum, Allowed: stockStates},
			{Param: "power_min", Path: "power.amount", Kind: Min},
			{Param: "power_max", Path: "power.amount", Kind: Max},
			{Param: "weight_min", Path: "weight.amount", Kind: Min},
			{Param: "weight_max", Path: "weight.amount", Kind: Max},
			{Param: "productionCapacity_min", Path: "productionCapacity.amount", Kind: Min},
			{Param: "productionCapacity_max", Path: "productionCapacity.amount", Kind: Max},
			{Param: "warranty_min", Path: "warranty.amount", Kind: Min},
			{Param: "warranty_max", Path: "warranty.amount", Kind: Max},
			{Param: "financingOptions", Path: "financingOptions", Kind: Enum, Allowed: models.FinancingOptions},
			{Param: "accessories_included", Path: "accessories_included", Kind: Bool},
			{Param: "spare_parts_available", Path: "spare_parts_available", Kind: Bool},
			{Param: "after_sales_service", Path: "after_sales_service", Kind: Bool},
			{Param: "customer_reviews", Path: "reviews", Kind: NonEmptyArray},
		},
		Join: &Join{From: "businesses", LocalField: "business", As: "business"},
		PostJoin: []Field{
			{Param: "verified_suppliers", Path: "business.verified", Kind: TruthyBool},
			{Param: "supplier_rating_min", Path: "business.ratings", Kind: Min},
		},
		Keyword: &Keyword{
			Param: "keyword",
			Paths: []string{"machine_name", "machine_des", "brand", "model"},
		},
		DefaultSort: newestFirst,
	}
}

// SpareParts is the filter table for spare-part listings.
func SpareParts() Spec {
	return Spec{
		Local: []Field{
			{Param: "partType", Path: "partCategory", Kind: In},
			{Param: "subCategory", Path: "subCategory", Kind: In},
			{Param: "condition", Path: "condition", Kind: Enum, Allowed: conditions},
			{Param: "locationCountry", Path: "locationCountry", Kind: Exact},
			{Param: "locationCity", Path: "locationCity", Kind: Exact},
			{Param: "availability", Path: "availability", Kind: Enum, Allowed: stockStates},
			{Param: "minPrice", Path: "price", Kind: Min},
			{Param: "maxPrice", Path: "price", Kind: Max},
			{Param: "priceType", Kind: PriceType, FixedPath: "fixedPrice", NegotiablePath: "negotiablePrice"},
			{Param: "bulkDiscountsAvailable", Path: "bulkDiscountsAvailable", Kind: Bool},
		},
		Join: &Join{From: "businesses", LocalField: "supplier", As: "supplier"},
		PostJoin: []Field{
			{Param: "supplierMinRating", Path: "supplier.ratings", Kind: Min},
		},
		Keyword: &Keyword{
			Param: "keyword",
			Paths: []string{"partCategory", "subCategory", "description"},
		},
		DefaultSort: newestFirst,
	}
}

// RawMaterials is the filter table for raw-material listings.
func RawMaterials() Spec {
	return Spec{
		Local: []Field{
			{Param: "category", Path: "materialCategory", Kind: In},
			{Param: "subCategory", Path: "materialSubCategory", Kind: In},
			{Param: "locationCountry", Path: "locationCountry", Kind: Exact},
			{Param: "locationCity", Path: "locationCity", Kind: Exact},
			{Param: "availability", Path: "availability", Kind: Enum, Allowed: []string{models.AvailabilityInStock, models.AvailabilityOnOrder}},
			{Param: "minPrice", Path: "price.amount", Kind: Min},
			{Param: "maxPrice", Path: "price.amount", Kind: Max},
			{Param: "priceType", Kind: PriceType, FixedPath: "fixedPrice", NegotiablePath: "negotiablePrice"},
			{Param: "bulkDiscountsAvailable", Path: "bulkDiscountsAvailable", Kind: Bool},
		},
		Join: &Join{From: "businesses", LocalField: "supplier", As: "supplier"},
		PostJoin: []Field{
			{Param: "supplierMinRating", Path: "supplier.ratings", Kind: Min},
		},
		Keyword: &Keyword{
			Param: "keyword",
			Paths: []string{"materialCategory", "materialSubCategory", "description"},
		},
		DefaultSort: newestFirst,
	}
}

// Services is the filter table for the public service search. Only approved
// services are visible; the geo stage carries the same base query since
// $geoNear must lead the pipeline.
func Services() Spec {
	return Spec{
		BaseMatch: bson.M{"status": models.StatusApproved},
		Geo: &Geo{
			LocationParam: "location",
			RadiusParams:  []string{"radius"},
			BaseQuery:     bson.M{"status": models.StatusApproved},
		},
		Local: []Field{
			{Param: "category", Path: "category", Kind: Exact},
			{Param: "serviceType", Path: "category", Kind: Exact},
			{Param: "minRating", Path: "ratings", Kind: Min},
			{Param: "minReviews", Path: "reviews", Kind: MinArraySize},
			{Param: "availability", Path: "availability", Kind: DateWindow},
			{Param: "minPrice", Path: "pricing.amount", Kind: Min},
			{Param: "maxPrice", Path: "pricing.amount", Kind: Max},
			{Param: "pricingType", Path: "pricing.unit", Kind: Exact},
		},
		Join: &Join{From: "businesses", LocalField: "business", As: "business"},
		PostJoin: []Field{
			{Param: "certifications", Path: "business.certifications", Kind: In},
			{Param: "providerTypes", Path: "business.businessType", Kind: In},
			{Param: "minExperience", Path: "business.years_of_experience", Kind: Min},
			{Param: "maxExperience", Path: "business.years_of_experience", Kind: Max},
		},
		Keyword: &Keyword{
			Param: "keyword",
			Paths: []string{"title", "description", "category"},
		},
		AddFields: bson.M{
			"numberOfReviews":         bson.M{"$size": bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}}},
			"averageRating":           "$ratings",
			"businessNumberOfReviews": bson.M{"$size": bson.M{"$ifNull": bson.A{"$business.reviews", bson.A{}}}},
			"businessAverageRating":   "$business.ratings",
		},
		SortParam: "sortBy",
		Sorts: map[string]bson.D{
			"highest_rating": {{Key: "ratings", Value: -1}},
			"lowest_price":   {{Key: "pricing.amount", Value: 1}},
			"most_reviewed":  {{Key: "numberOfReviews", Value: -1}},
			"newest":         newestFirst,
		},
		DefaultSort: newestFirst,
	}
}

// Businesses is the filter table for the business directory search. The join
// fans out into services so service-level filters apply, then the regroup
// restores one row per business with only its matching services.
func Businesses() Spec {
	return Spec{
		Geo: &Geo{
			LatParam:     "latitude",
			LngParam:     "longitude",
			RadiusParams: []string{"radius", "radius[max]"},
		},
		Local: []Field{
			{Param: "businessName", Path: "businessName", Kind: Text},
			{Param: "selectedCertifications", Path: "certifications", Kind: In},
			{Param: "experienceRange", Path: "years_of_experience", Kind: RangePair},
			{Param: "selectedProviders", Path: "businessType", Kind: In},
			{Param: "selectedRating", Path: "ratings", Kind: Min},
			{Param: "expertiseLevel", Path: "expertise_level", Kind: Enum, Allowed: models.ExpertiseLevels},
			{Param: "availabilityOption", Path: "availability", Kind: SlotWindow},
		},
		Join: &Join{
			From:       "services",
			LocalField: "services",
			As:         "services",
			BaseMatch:  bson.M{"services.status": models.StatusApproved},
		},
		PostJoin: []Field{
			{Param: "serviceName", Path: "services.title", Kind: Text},
			{Param: "selectedCategories", Path: "services.category", Kind: In},
			{Param: "priceRange[min]", Path: "services.pricing.amount", Kind: Min},
			{Param: "priceRange[max]", Path: "services.pricing.amount", Kind: Max},
			{Param: "pricingType", Path: "services.pricingType", Kind: Exact},
		},
		Regroup: businessRegroup(),
		AddFields: bson.M{
			"numberOfReviews": bson.M{"$size": bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}}},
		},
		PostGroup: []Field{
			{Param: "selectedRating", Path: "ratings", Kind: Min},
			{Param: "minReviews", Path: "numberOfReviews", Kind: Min},
		},
		SortParam: "sortingOption",
		Sorts: map[string]bson.D{
			"Highest Rating": {{Key: "ratings", Value: -1}},
			"Most Reviewed":  {{Key: "numberOfReviews", Value: -1}},
			"Newest":         newestFirst,
			"Lowest Price":   {{Key: "services.pricing.amount", Value: 1}},
			"Highest Price":  {{Key: "services.pricing.amount", Value: -1}},
		},
		DefaultSort: newestFirst,
	}
}

func businessRegroup() bson.D {
	first := func(field string) bson.M {
		return bson.M{"$first": "$" + field}
	}
	return bson.D{
		{Key: "_id", Value: "$_id"},
		{Key: "user", Value: first("user")},
		{Key: "businessName", Value: first("businessName")},
		{Key: "businessType", Value: first("businessType")},
		{Key: "years_of_experience", Value: first("years_of_experience")},
		{Key: "expertise_level", Value: first("expertise_level")},
		{Key: "ratings", Value: first("ratings")},
		{Key: "availability", Value: first("availability")},
		{Key: "description", Value: first("description")},
		{Key: "logo", Value: first("logo")},
		{Key: "banner", Value: first("banner")},
		{Key: "location", Value: first("location")},
		{Key: "contact_info", Value: first("contact_info")},
		{Key: "certifications", Value: first("certifications")},
		{Key: "workingHours", Value: first("workingHours")},
		{Key: "subscriptionPlan", Value: first("subscriptionPlan")},
		{Key: "verified", Value: first("verified")},
		{Key: "reviews", Value: first("reviews")},
		{Key: "noOfOrders", Value: first("noOfOrders")},
		{Key: "machines", Value: first("machines")},
		{Key: "createdAt", Value: first("createdAt")},
		{Key: "services", Value: bson.M{"$push": "$services"}},
		{Key: "distance", Value: first("distance")},
	}
}
