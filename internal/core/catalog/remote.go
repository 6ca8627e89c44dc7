package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mixwise-api/internal/core/matching"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

// RemoteSource 從 REST 目錄服務讀取食材與酒譜
type RemoteSource struct {
	baseURL string
	client  *resty.Client
}

// NewRemoteSource 創建遠端來源，apiKey 同時以 apikey 與 Bearer 標頭送出
func NewRemoteSource(baseURL, apiKey string, timeout time.Duration) *RemoteSource {
	baseURL = strings.TrimRight(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)
	if apiKey != "" {
		client.SetHeader("apikey", apiKey).
			SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}

	return &RemoteSource{
		baseURL: baseURL,
		client:  client,
	}
}

func (s *RemoteSource) String() string {
	return "http:" + s.baseURL
}

// Fetch 同時取得食材與酒譜
func (s *RemoteSource) Fetch(ctx context.Context) (*Document, error) {
	var (
		ingredients []matching.Ingredient
		recipes     []RecipeRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.get(ctx, "/ingredients", &ingredients)
	})
	g.Go(func() error {
		return s.get(ctx, "/recipes", &recipes)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Document{
		Ingredients: ingredients,
		Recipes:     recipes,
	}, nil
}

func (s *RemoteSource) get(ctx context.Context, path string, out interface{}) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("catalog service returned %d for %s: %s", resp.StatusCode(), path, resp.String())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
