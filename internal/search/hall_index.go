package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"functionhall/internal/domain"
	"functionhall/internal/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// HallDocument is the searchable projection of an approved hall.
type HallDocument struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	FunctionType string   `json:"function_type"`
	Capacity     int      `json:"capacity"`
	PricePerDay  float64  `json:"price_per_day"`
	Packages     []string `json:"packages"`
}

func NewHallDocument(h *domain.Hall) HallDocument {
	doc := HallDocument{
		ID:           h.ID,
		Name:         h.Name,
		Location:     h.Location,
		Description:  h.Description,
		FunctionType: h.FunctionType,
		Capacity:     h.Capacity,
		PricePerDay:  h.PricePerDay,
	}
	for _, p := range h.Packages {
		doc.Packages = append(doc.Packages, p.PackageName)
	}
	return doc
}

type HallIndex struct {
	client *elasticsearch.Client
	index  string
}

// NewHallIndex connects to Elasticsearch and creates the index when missing.
func NewHallIndex(ctx context.Context, url, index string) (*HallIndex, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{url},
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    3,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	idx := &HallIndex{client: es, index: index}
	if err := idx.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

func (i *HallIndex) ensureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{i.index}}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("check index %s: %w", i.index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	mapping := map[string]any{
		"settings": map[string]any{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"id":            map[string]any{"type": "long"},
				"name":          map[string]any{"type": "text", "fields": map[string]any{"keyword": map[string]any{"type": "keyword", "ignore_above": 256}}},
				"location":      map[string]any{"type": "text"},
				"description":   map[string]any{"type": "text"},
				"function_type": map[string]any{"type": "text"},
				"packages":      map[string]any{"type": "text"},
				"capacity":      map[string]any{"type": "integer"},
				"price_per_day": map[string]any{"type": "double"},
			},
		},
	}
	body, err := json.Marshal(mapping)
	if err != nil {
		return err
	}

	createRes, err := esapi.IndicesCreateRequest{Index: i.index, Body: bytes.NewReader(body)}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("create index %s: %w", i.index, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("create index %s: %s", i.index, createRes.String())
	}
	logger.Get().Info("created elasticsearch index", "index", i.index)
	return nil
}

func (i *HallIndex) IndexHall(ctx context.Context, h *domain.Hall) error {
	body, err := json.Marshal(NewHallDocument(h))
	if err != nil {
		return err
	}

	res, err := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: strconv.FormatInt(h.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("index hall %d: %w", h.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index hall %d: %s", h.ID, res.String())
	}
	return nil
}

func (i *HallIndex) DeleteHall(ctx context.Context, id int64) error {
	res, err := esapi.DeleteRequest{
		Index:      i.index,
		DocumentID: strconv.FormatInt(id, 10),
		Refresh:    "wait_for",
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("delete hall %d: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete hall %d: %s", id, res.String())
	}
	return nil
}

// SearchIDs runs a fuzzy full text query and returns matching hall ids by relevance.
func (i *HallIndex) SearchIDs(ctx context.Context, query string, limit int) ([]int64, error) {
	if limit <= 0 {
		limit = 100
	}
	req := map[string]any{
		"size":    limit,
		"_source": []string{"id"},
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^3", "location^2", "function_type", "packages", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	res, err := esapi.SearchRequest{
		Index: []string{i.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, i.client)
	if err != nil {
		return nil, fmt.Errorf("search halls: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search halls: %s", res.String())
	}

	var out struct {
		Hits struct {
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]int64, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, nil
}
