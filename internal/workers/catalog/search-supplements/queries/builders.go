package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrMissingIndex = errors.New("index name is required")
	ErrEmptyQuery   = errors.New("search text is required")
)

const (
	DefaultSize = 10
	MaxSize     = 50
)

// SupplementQuery describes a catalog search.
type SupplementQuery struct {
	Index    string
	Text     string
	Category string
	Size     int
}

// BuildSearch builds the search request for q.
func BuildSearch(q SupplementQuery) (*esapi.SearchRequest, error) {
	if q.Index == "" {
		return nil, ErrMissingIndex
	}
	if strings.TrimSpace(q.Text) == "" {
		return nil, ErrEmptyQuery
	}

	size := q.Size
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	body, err := json.Marshal(buildSupplementQuery(q))
	if err != nil {
		return nil, err
	}

	return &esapi.SearchRequest{
		Index: []string{q.Index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}, nil
}

// buildSupplementQuery matches the text against name, target symptoms and
// benefits, tolerating typos, and filters by category when given.
func buildSupplementQuery(q SupplementQuery) map[string]interface{} {
	boolQuery := map[string]interface{}{
		"must": []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":     strings.TrimSpace(q.Text),
					"fields":    []string{"name^3", "targetSymptoms^2", "benefits"},
					"type":      "best_fields",
					"fuzziness": "AUTO",
				},
			},
		},
	}

	if q.Category != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{
				"term": map[string]interface{}{"category": q.Category},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"name.raw": "asc"},
		},
	}
}
