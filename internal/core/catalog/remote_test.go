package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newCatalogServer(t *testing.T, recipesStatus int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "secret" || r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ingredients":
			_, _ = w.Write([]byte(`[{"id":"gin","name":"Gin"},{"id":"vermouth","name":"Vermouth"}]`))
		case "/recipes":
			if recipesStatus != http.StatusOK {
				w.WriteHeader(recipesStatus)
				_, _ = w.Write([]byte(`{"message":"boom"}`))
				return
			}
			_, _ = w.Write([]byte(`[{"id":"m1","slug":"martini","name":"Martini","ingredients":[{"ingredient_id":"gin"},{"ingredient_id":"vermouth"}]}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRemoteSource_Fetch(t *testing.T) {
	srv := newCatalogServer(t, http.StatusOK)
	defer srv.Close()

	doc, err := NewRemoteSource(srv.URL+"/", "secret", 5*time.Second).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(doc.Ingredients) != 2 {
		t.Errorf("expected 2 ingredients, got %d", len(doc.Ingredients))
	}
	if len(doc.Recipes) != 1 || doc.Recipes[0].Slug != "martini" || len(doc.Recipes[0].Lines) != 2 {
		t.Errorf("unexpected recipes: %+v", doc.Recipes)
	}
}

func TestRemoteSource_ErrorStatus(t *testing.T) {
	srv := newCatalogServer(t, http.StatusBadRequest)
	defer srv.Close()

	if _, err := NewRemoteSource(srv.URL, "secret", 5*time.Second).Fetch(context.Background()); err == nil {
		t.Fatal("expected error for failed recipes endpoint")
	}
}

func TestRemoteSource_Unauthorized(t *testing.T) {
	srv := newCatalogServer(t, http.StatusOK)
	defer srv.Close()

	if _, err := NewRemoteSource(srv.URL, "wrong", 5*time.Second).Fetch(context.Background()); err == nil {
		t.Fatal("expected error without valid api key")
	}
}

func TestRemoteSource_String(t *testing.T) {
	if got := NewRemoteSource("https://example.com/rest/v1/", "", time.Second).String(); got != "http:https://example.com/rest/v1" {
		t.Errorf("String() = %q", got)
	}
}
