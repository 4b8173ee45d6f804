package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"supplement-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

type SearchResult struct {
	Supplements []models.Supplement
	TotalHits   int64
	MaxScore    float64
	Took        int64
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			Source models.Supplement `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func Execute(ctx context.Context, client *elasticsearch.Client, q SupplementQuery) (*SearchResult, error) {
	req, err := BuildSearch(q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &SearchResult{
		Supplements: make([]models.Supplement, 0, len(r.Hits.Hits)),
		TotalHits:   r.Hits.Total.Value,
		Took:        time.Since(start).Milliseconds(),
	}
	if r.Hits.MaxScore != nil {
		out.MaxScore = *r.Hits.MaxScore
	}
	for _, hit := range r.Hits.Hits {
		out.Supplements = append(out.Supplements, hit.Source)
	}
	return out, nil
}
