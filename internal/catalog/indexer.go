// internal/catalog/indexer.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"supplement-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

const supplementMapping = `{
	"mappings": {
		"properties": {
			"id": {"type": "keyword"},
			"name": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"category": {"type": "keyword"},
			"targetSymptoms": {"type": "text"},
			"benefits": {"type": "text"},
			"dosageMin": {"type": "float"},
			"dosageMax": {"type": "float"},
			"dosageUnit": {"type": "keyword"},
			"timing": {"type": "keyword"},
			"evidenceLevel": {"type": "keyword"}
		}
	}
}`

// Indexer writes supplements into the search index.
type Indexer struct {
	client *elasticsearch.Client
	index  string
}

func NewIndexer(client *elasticsearch.Client, index string) *Indexer {
	return &Indexer{client: client, index: index}
}

func (ix *Indexer) Index() string { return ix.index }

// EnsureIndex creates the index with the supplement mapping when missing.
func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	res, err := ix.client.Indices.Exists([]string{ix.index}, ix.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", ix.index, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = ix.client.Indices.Create(
		ix.index,
		ix.client.Indices.Create.WithBody(strings.NewReader(supplementMapping)),
		ix.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", ix.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", ix.index, res.String())
	}
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// IndexSupplements bulk-indexes sups keyed by ID and returns how many
// documents were accepted. Documents whose IDs are not in sups are deleted
// afterwards so the index mirrors the imported dataset.
func (ix *Indexer) IndexSupplements(ctx context.Context, sups []models.Supplement) (int, error) {
	if len(sups) == 0 {
		return 0, nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, s := range sups {
		meta := map[string]interface{}{"index": map[string]interface{}{"_id": s.ID}}
		if err := enc.Encode(meta); err != nil {
			return 0, err
		}
		if err := enc.Encode(s); err != nil {
			return 0, fmt.Errorf("encode supplement %s: %w", s.ID, err)
		}
	}

	res, err := ix.client.Bulk(
		&body,
		ix.client.Bulk.WithIndex(ix.index),
		ix.client.Bulk.WithRefresh("true"),
		ix.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("bulk index: %s", res.String())
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return 0, fmt.Errorf("decode bulk response: %w", err)
	}

	indexed := 0
	var failed []string
	for _, item := range br.Items {
		for _, result := range item {
			if result.Error != nil || result.Status >= 300 {
				failed = append(failed, result.ID)
				continue
			}
			indexed++
		}
	}
	if len(failed) > 0 {
		return indexed, fmt.Errorf("bulk index: %d documents rejected: %s", len(failed), strings.Join(failed, ", "))
	}

	keep := make([]string, 0, len(sups))
	for _, s := range sups {
		keep = append(keep, s.ID)
	}
	if _, err := ix.PruneExcept(ctx, keep); err != nil {
		return indexed, err
	}
	return indexed, nil
}

type deleteByQueryResponse struct {
	Deleted  int               `json:"deleted"`
	Failures []json.RawMessage `json:"failures"`
}

// PruneExcept deletes every document whose ID is not in keep and returns
// the number of deleted documents.
func (ix *Indexer) PruneExcept(ctx context.Context, keep []string) (int, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must_not": map[string]interface{}{
					"ids": map[string]interface{}{"values": keep},
				},
			},
		},
	}
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(query); err != nil {
		return 0, err
	}

	res, err := ix.client.DeleteByQuery(
		[]string{ix.index},
		&body,
		ix.client.DeleteByQuery.WithConflicts("proceed"),
		ix.client.DeleteByQuery.WithRefresh(true),
		ix.client.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("prune index %s: %w", ix.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("prune index %s: %s", ix.index, res.String())
	}

	var dr deleteByQueryResponse
	if err := json.NewDecoder(res.Body).Decode(&dr); err != nil {
		return 0, fmt.Errorf("decode delete-by-query response: %w", err)
	}
	if len(dr.Failures) > 0 {
		return dr.Deleted, fmt.Errorf("prune index %s: %d delete failures", ix.index, len(dr.Failures))
	}
	return dr.Deleted, nil
}
