package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/zamato/zamato/internal/models"
)

const RestaurantIndex = "restaurants"

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: %s", res.Status())
	}

	return client, nil
}

func Restaurants(ctx context.Context, es *elasticsearch.Client, query string, from, size int) (int64, []models.Restaurant, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "cuisine"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(RestaurantIndex),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Restaurant `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	restaurants := make([]models.Restaurant, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		restaurants[i] = hit.Source
	}
	return r.Hits.Total.Value, restaurants, nil
}

// IndexRestaurant upserts one document. Callers treat failures as
// best-effort: the database stays authoritative.
func IndexRestaurant(ctx context.Context, es *elasticsearch.Client, restaurant *models.Restaurant) error {
	data, err := json.Marshal(restaurant)
	if err != nil {
		return fmt.Errorf("marshal restaurant: %w", err)
	}

	res, err := es.Index(
		RestaurantIndex,
		bytes.NewReader(data),
		es.Index.WithDocumentID(restaurant.ID.String()),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index restaurant: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index restaurant: %s", res.Status())
	}
	return nil
}
