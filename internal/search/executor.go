package search

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Pagination describes one page of results in the response envelope.
type Pagination struct {
	CurrentPage  int64 `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int64 `json:"itemsPerPage"`
}

// Run executes the result pipeline and the count pipeline against col and
// returns the page of documents with pagination metadata.
func Run(ctx context.Context, col *mongo.Collection, q Query) ([]bson.M, Pagination, error) {
	cursor, err := col.Aggregate(ctx, q.Pipeline)
	if err != nil {
		return nil, Pagination{}, err
	}
	defer cursor.Close(ctx)

	results := []bson.M{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, Pagination{}, err
	}

	total, err := countTotal(ctx, col, q.CountPipeline)
	if err != nil {
		return nil, Pagination{}, err
	}
	return results, Paginate(q.Page, q.Limit, total), nil
}

func countTotal(ctx context.Context, col *mongo.Collection, pipeline []bson.D) (int64, error) {
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var out []struct {
		Total int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

// Paginate computes the page envelope. A requested page past the last one is
// reported as the last page (the data for it is empty either way), so the
// envelope's bounds stay consistent for any page/limit combination.
func Paginate(page, limit, total int64) Pagination {
	pages := int64(0)
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	current := page
	if pages == 0 {
		current = 1
	} else if current > pages {
		current = pages
	}
	return Pagination{
		CurrentPage:  current,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}
