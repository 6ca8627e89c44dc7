package catalog

import (
	"context"
	"errors"
	"testing"
)

type stubSource struct {
	doc *Document
	err error
}

func (s *stubSource) Fetch(ctx context.Context) (*Document, error) {
	return s.doc, s.err
}

func (s *stubSource) String() string {
	return "stub"
}

func TestHolder_CurrentBeforeLoad(t *testing.T) {
	h := NewHolder(&stubSource{doc: testDocument()}, BuildOptions{})
	if _, err := h.Current(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if _, ok := h.LastReport(); ok {
		t.Error("expected no report before load")
	}
	if !h.LoadedAt().IsZero() {
		t.Error("expected zero LoadedAt before load")
	}
}

func TestHolder_ReloadKeepsPreviousSnapshotOnFailure(t *testing.T) {
	src := &stubSource{doc: testDocument()}
	h := NewHolder(src, BuildOptions{})

	first, err := h.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(first.Recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(first.Recipes))
	}
	if report, ok := h.LastReport(); !ok || report.Recipes != 2 {
		t.Errorf("unexpected report %+v (ok=%v)", report, ok)
	}

	src.err = errors.New("upstream down")
	if _, err := h.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}

	current, err := h.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current != first {
		t.Error("failed reload replaced the snapshot")
	}
}

func TestHolder_ReloadSwapsSnapshot(t *testing.T) {
	src := &stubSource{doc: testDocument()}
	h := NewHolder(src, BuildOptions{})
	first, err := h.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}

	next := testDocument()
	next.Recipes = next.Recipes[:1]
	src.doc = next

	second, err := h.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if second.Version == first.Version {
		t.Error("expected new version after content change")
	}
	if len(first.Recipes) != 2 {
		t.Error("old snapshot was mutated")
	}
	if current, _ := h.Current(); current != second {
		t.Error("Current did not return the new snapshot")
	}
}

func TestStaticHolder(t *testing.T) {
	c := Build(testDocument(), BuildOptions{})
	h := NewStaticHolder(c)

	got, err := h.Reload(context.Background())
	if err != nil || got != c {
		t.Errorf("Reload on static holder = %v, %v", got, err)
	}
	if h.Source() != "static" {
		t.Errorf("Source() = %q", h.Source())
	}
}
