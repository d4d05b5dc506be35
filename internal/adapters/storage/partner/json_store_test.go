package partner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "churchdesk/internal/domain/partnership"
)

func samplePartner(id, name string) domain.Partner {
	return domain.Partner{
		ID:                 id,
		Name:               name,
		Email:              name + "@example.com",
		Tier:               domain.TierBronze,
		TotalContributions: decimal.NewFromInt(0),
		CreatedAt:          time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// TestJSONStore_MissingFile verifies a missing file yields an empty store.
func TestJSONStore_MissingFile(t *testing.T) {
	s, err := NewJSONStore(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	list, _ := s.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("List len = %d, want 0", len(list))
	}
}

// TestJSONStore_MalformedFile verifies malformed JSON starts empty and is kept aside,
// untouched by the next write.
func TestJSONStore_MalformedFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	list, _ := s.List(ctx)
	if len(list) != 0 {
		t.Fatalf("List len = %d, want 0", len(list))
	}
	if err := s.Save(ctx, samplePartner("p-1", "ama")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	aside, err := filepath.Glob(path + ".bad-*")
	if err != nil || len(aside) != 1 {
		t.Fatalf("set-aside files = %v, %v; want one", aside, err)
	}
	data, _ := os.ReadFile(aside[0])
	if string(data) != "{not json" {
		t.Errorf("set-aside content = %q", data)
	}
}

// TestJSONStore_LegacyFile verifies a file from the original desk (zoneless created_at,
// no tier or totals) loads in full and survives the next save.
func TestJSONStore_LegacyFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), FileName)
	legacy := `[
  {
    "id": "0b6f3c1e-legacy-1",
    "name": "Grace Ministries",
    "email": "grace@example.com",
    "phone": "0244111222",
    "partnership_date": "2024-01-10",
    "created_at": "2024-01-10T09:15:22.123456"
  },
  {
    "id": "0b6f3c1e-legacy-2",
    "name": "Kwame Asante",
    "email": null,
    "phone": "0200333444",
    "partnership_date": "2024-02-01",
    "created_at": "2024-02-01T18:00:00",
    "notes": "monthly"
  }
]`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	list, _ := s.List(ctx)
	if len(list) != 2 {
		t.Fatalf("loaded %d legacy partners, want 2", len(list))
	}
	first := list[0]
	if first.Tier != domain.TierBronze || !first.TotalContributions.IsZero() {
		t.Errorf("defaults = tier %q total %s", first.Tier, first.TotalContributions)
	}
	if y, m, d := first.CreatedAt.Date(); y != 2024 || m != time.January || d != 10 || first.CreatedAt.Hour() != 9 {
		t.Errorf("created_at = %v", first.CreatedAt)
	}

	if err := s.Save(ctx, samplePartner("p-new", "ama")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reloaded, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	list, _ = reloaded.List(ctx)
	if len(list) != 3 {
		t.Fatalf("partners on disk after save = %d, want 3", len(list))
	}
	if list[1].Name != "Kwame Asante" || list[2].ID != "p-new" {
		t.Errorf("order = %s, %s", list[1].Name, list[2].ID)
	}
	if matches, _ := filepath.Glob(path + ".bad-*"); len(matches) != 0 {
		t.Errorf("legacy file set aside as malformed: %v", matches)
	}
}

// TestJSONStore_RoundTripThroughFile verifies writes survive a reload.
func TestJSONStore_RoundTripThroughFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", FileName)

	s, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	a := samplePartner("p-1", "ama")
	b := samplePartner("p-2", "kofi")
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("Save a: %v", err)
	}
	if err := s.Save(ctx, b); err != nil {
		t.Fatalf("Save b: %v", err)
	}
	a.TotalContributions = decimal.RequireFromString("150.50")
	a.LastContributionDate = "2026-02-01"
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("Save a again: %v", err)
	}

	reloaded, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	list, _ := reloaded.List(ctx)
	if len(list) != 2 {
		t.Fatalf("List len = %d, want 2", len(list))
	}
	if list[0].ID != "p-1" || list[1].ID != "p-2" {
		t.Errorf("order = %s, %s", list[0].ID, list[1].ID)
	}
	if !list[0].TotalContributions.Equal(decimal.RequireFromString("150.5")) {
		t.Errorf("total = %s", list[0].TotalContributions)
	}
	if !list[0].CreatedAt.Equal(a.CreatedAt) {
		t.Errorf("created_at = %v", list[0].CreatedAt)
	}
}

// TestJSONStore_Delete verifies delete and the unknown-id no-op.
func TestJSONStore_Delete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), FileName)
	s, _ := NewJSONStore(path)
	_ = s.Save(ctx, samplePartner("p-1", "ama"))

	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete unknown: %v", err)
	}
	if err := s.Delete(ctx, "p-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.GetByID(ctx, "p-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID after delete err = %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[]" {
		t.Errorf("file = %q, want []", data)
	}
}
