package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Every search pages with the same defaults regardless of entity.
const (
	DefaultPage  = int64(1)
	DefaultLimit = int64(20)
)

// Query is a built aggregation pair: the result pipeline and the matching
// count pipeline (same stages minus sort and pagination, plus $count).
type Query struct {
	Pipeline      []bson.D
	CountPipeline []bson.D
	Page          int64
	Limit         int64
}

// Build translates raw query parameters into the entity's pipeline. The only
// error case is a malformed coordinate pair; everything else is parsed
// defensively (ignored) or fails closed per the field table.
func Build(spec Spec, params url.Values) (Query, error) {
	q := Query{
		Page:  parsePositive(params.Get("page"), DefaultPage),
		Limit: parsePositive(params.Get("limit"), DefaultLimit),
	}

	shared := make([]bson.D, 0, 8)

	geoApplied := false
	if spec.Geo != nil {
		stage, applied, err := geoStage(spec.Geo, params)
		if err != nil {
			return Query{}, err
		}
		if applied {
			shared = append(shared, stage)
			geoApplied = true
		}
	}

	local := bson.M{}
	if !geoApplied {
		mergeMatch(local, spec.BaseMatch)
	}
	for _, f := range spec.Local {
		applyField(local, f, params)
	}
	if len(local) > 0 {
		shared = append(shared, bson.D{{Key: "$match", Value: local}})
	}

	if spec.Join != nil {
		shared = append(shared,
			bson.D{{Key: "$lookup", Value: bson.M{
				"from":         spec.Join.From,
				"localField":   spec.Join.LocalField,
				"foreignField": "_id",
				"as":           spec.Join.As,
			}}},
			bson.D{{Key: "$unwind", Value: "$" + spec.Join.As}},
		)

		postJoin := bson.M{}
		mergeMatch(postJoin, spec.Join.BaseMatch)
		for _, f := range spec.PostJoin {
			applyField(postJoin, f, params)
		}
		if len(postJoin) > 0 {
			shared = append(shared, bson.D{{Key: "$match", Value: postJoin}})
		}
	}

	if spec.Keyword != nil {
		if term := strings.TrimSpace(params.Get(spec.Keyword.Param)); term != "" {
			shared = append(shared, bson.D{{Key: "$match", Value: keywordMatch(spec.Keyword.Paths, term)}})
		}
	}

	if len(spec.Regroup) > 0 {
		shared = append(shared, bson.D{{Key: "$group", Value: spec.Regroup}})
	}
	if len(spec.AddFields) > 0 {
		shared = append(shared, bson.D{{Key: "$addFields", Value: spec.AddFields}})
	}

	postGroup := bson.M{}
	for _, f := range spec.PostGroup {
		applyField(postGroup, f, params)
	}
	if len(postGroup) > 0 {
		shared = append(shared, bson.D{{Key: "$match", Value: postGroup}})
	}

	sort := spec.DefaultSort
	if spec.SortParam != "" {
		if chosen, ok := spec.Sorts[params.Get(spec.SortParam)]; ok {
			sort = chosen
		}
	}

	q.Pipeline = append(append([]bson.D{}, shared...),
		bson.D{{Key: "$sort", Value: sort}},
		bson.D{{Key: "$skip", Value: (q.Page - 1) * q.Limit}},
		bson.D{{Key: "$limit", Value: q.Limit}},
	)

	// The count drops sort along with pagination; sorting cannot change a
	// count and only costs time on large result sets.
	q.CountPipeline = append(append([]bson.D{}, shared...),
		bson.D{{Key: "$count", Value: "count"}},
	)

	return q, nil
}

func geoStage(geo *Geo, params url.Values) (bson.D, bool, error) {
	var lat, lng float64
	var haveCoords bool

	if geo.LocationParam != "" {
		raw := strings.TrimSpace(params.Get(geo.LocationParam))
		if raw != "" {
			parts := strings.Split(raw, ",")
			if len(parts) != 2 {
				return nil, false, fmt.Errorf("invalid location format, expected \"latitude,longitude\"")
			}
			var err1, err2 error
			lat, err1 = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			lng, err2 = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err1 != nil || err2 != nil {
				return nil, false, fmt.Errorf("invalid location format, expected \"latitude,longitude\"")
			}
			haveCoords = true
		}
	} else {
		latRaw := strings.TrimSpace(params.Get(geo.LatParam))
		lngRaw := strings.TrimSpace(params.Get(geo.LngParam))
		if latRaw != "" && lngRaw != "" {
			var err1, err2 error
			lat, err1 = strconv.ParseFloat(latRaw, 64)
			lng, err2 = strconv.ParseFloat(lngRaw, 64)
			haveCoords = err1 == nil && err2 == nil
		}
	}

	radius, haveRadius := firstNumber(params, geo.RadiusParams)
	if !haveCoords || !haveRadius {
		return nil, false, nil
	}

	near := bson.M{
		"near": bson.M{
			"type":        "Point",
			"coordinates": []float64{lng, lat},
		},
		"distanceField": "distance",
		"maxDistance":   radius * 1000, // km to meters
		"spherical":     true,
	}
	if len(geo.BaseQuery) > 0 {
		near["query"] = geo.BaseQuery
	}
	return bson.D{{Key: "$geoNear", Value: near}}, true, nil
}

func applyField(match bson.M, f Field, params url.Values) {
	raw := strings.TrimSpace(params.Get(f.Param))
	if raw == "" {
		return
	}

	switch f.Kind {
	case Text:
		match[f.Path] = bson.M{"$regex": raw, "$options": "i"}
	case Exact:
		match[f.Path] = raw
	case In:
		if values := splitCSV(raw); len(values) > 0 {
			match[f.Path] = bson.M{"$in": values}
		}
	case Bool:
		match[f.Path] = parseBoolean(raw)
	case TruthyBool:
		if parseBoolean(raw) {
			match[f.Path] = true
		}
	case Min:
		if n, ok := parseNumber(raw); ok {
			rangeCond(match, f.Path, "$gte", n)
		}
	case Max:
		if n, ok := parseNumber(raw); ok {
			rangeCond(match, f.Path, "$lte", n)
		}
	case Enum:
		if contains(f.Allowed, raw) {
			match[f.Path] = raw
		} else {
			failClosed(match)
		}
	case PriceType:
		switch raw {
		case "fixed":
			match[f.FixedPath] = true
			match[f.NegotiablePath] = false
		case "negotiable":
			match[f.FixedPath] = false
			match[f.NegotiablePath] = true
		default:
			failClosed(match)
		}
	case MinArraySize:
		if n, ok := parseNumber(raw); ok {
			match["$expr"] = bson.M{"$gte": bson.A{bson.M{"$size": bson.M{"$ifNull": bson.A{"$" + f.Path, bson.A{}}}}, n}}
		}
	case NonEmptyArray:
		if parseBoolean(raw) {
			match[f.Path] = bson.M{"$exists": true, "$ne": bson.A{}}
		}
	case RangePair:
		applyRangePair(match, f.Path, raw)
	case DateWindow:
		applyDateWindow(match, f.Path, raw)
	case SlotWindow:
		applySlotWindow(match, f.Path, raw)
	}
}

// failClosed injects a predicate no document can satisfy, so an unrecognized
// enum value yields zero results instead of a silently dropped filter.
func failClosed(match bson.M) {
	match["_id"] = bson.M{"$in": bson.A{}}
}

func rangeCond(match bson.M, path, op string, value float64) {
	cond, ok := match[path].(bson.M)
	if !ok {
		cond = bson.M{}
		match[path] = cond
	}
	cond[op] = value
}

func applyRangePair(match bson.M, path, raw string) {
	parts := strings.SplitN(raw, "-", 2)
	if min, ok := parseNumber(strings.TrimSpace(parts[0])); ok {
		rangeCond(match, path, "$gte", min)
	}
	if len(parts) == 2 {
		if max, ok := parseNumber(strings.TrimSpace(parts[1])); ok {
			rangeCond(match, path, "$lte", max)
		}
	}
}

func applyDateWindow(match bson.M, path, raw string) {
	now := time.Now()
	switch strings.ToLower(raw) {
	case "immediate":
		match[path] = bson.M{"$elemMatch": bson.M{"$gte": now}}
	case "within_week":
		match[path] = bson.M{"$elemMatch": bson.M{"$gte": now, "$lte": now.AddDate(0, 0, 7)}}
	}
}

func applySlotWindow(match bson.M, path, raw string) {
	now := time.Now()
	switch strings.ToLower(raw) {
	case "immediate":
		match[path] = bson.M{"$elemMatch": bson.M{"start": bson.M{"$lte": now}, "end": bson.M{"$gte": now}}}
	case "within a week":
		nextWeek := now.AddDate(0, 0, 7)
		match[path] = bson.M{"$elemMatch": bson.M{"start": bson.M{"$lte": nextWeek}, "end": bson.M{"$gte": now}}}
	}
}

func keywordMatch(paths []string, term string) bson.M {
	or := make(bson.A, 0, len(paths))
	for _, path := range paths {
		or = append(or, bson.M{path: bson.M{"$regex": term, "$options": "i"}})
	}
	return bson.M{"$or": or}
}

func mergeMatch(dst, src bson.M) {
	for k, v := range src {
		dst[k] = v
	}
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func parseBoolean(raw string) bool {
	return strings.EqualFold(raw, "true") || strings.EqualFold(raw, "yes")
}

func parseNumber(raw string) (float64, bool) {
	n, err := strconv.ParseFloat(raw, 64)
	return n, err == nil
}

func parsePositive(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func firstNumber(params url.Values, names []string) (float64, bool) {
	for _, name := range names {
		if raw := strings.TrimSpace(params.Get(name)); raw != "" {
			if n, ok := parseNumber(raw); ok && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
