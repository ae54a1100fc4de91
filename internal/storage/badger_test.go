package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	logger := common.NewSilentLogger()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "creda")

	mgr, err := NewManager(logger, cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestKnowledgeStorage_SaveAndGet(t *testing.T) {
	mgr := newTestManager(t)
	store := mgr.KnowledgeStorage()
	ctx := context.Background()

	doc := &models.KnowledgeDocument{
		ID:          "tax_planning_0_0",
		Text:        "Section 80C allows deductions up to 1.5 lakh.",
		Source:      "Income Tax Act",
		Category:    "tax_planning",
		Authority:   "Income Tax Department",
		Confidence:  0.98,
		TotalChunks: 1,
	}
	if err := store.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	got, err := store.GetDocument(ctx, "tax_planning_0_0")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if got.Category != "tax_planning" || got.Confidence != 0.98 {
		t.Errorf("unexpected document: %+v", got)
	}
	if got.LoadedAt.IsZero() {
		t.Error("expected LoadedAt to be stamped on save")
	}
}

func TestKnowledgeStorage_GetMissing(t *testing.T) {
	mgr := newTestManager(t)

	if _, err := mgr.KnowledgeStorage().GetDocument(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for missing document")
	}
}

func TestKnowledgeStorage_ListAndCount(t *testing.T) {
	mgr := newTestManager(t)
	store := mgr.KnowledgeStorage()
	ctx := context.Background()

	docs := []*models.KnowledgeDocument{
		{ID: "sip_0_1", Category: "sip", ChunkIndex: 1},
		{ID: "sip_0_0", Category: "sip", ChunkIndex: 0},
		{ID: "budgeting_0_0", Category: "budgeting", ChunkIndex: 0},
	}
	for _, doc := range docs {
		if err := store.SaveDocument(ctx, doc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}

	all, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(all))
	}
	// Sorted by category then chunk index
	if all[0].ID != "budgeting_0_0" || all[1].ID != "sip_0_0" || all[2].ID != "sip_0_1" {
		t.Errorf("unexpected order: %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}

	sips, err := store.ListByCategory(ctx, "sip")
	if err != nil {
		t.Fatalf("ListByCategory failed: %v", err)
	}
	if len(sips) != 2 || sips[0].ChunkIndex != 0 {
		t.Errorf("unexpected category listing: %+v", sips)
	}
}

func TestBanditStorage_RoundTrip(t *testing.T) {
	mgr := newTestManager(t)
	store := mgr.BanditStorage()
	ctx := context.Background()

	if _, err := store.GetState(ctx, "budget_bandit"); err == nil {
		t.Fatal("expected error for missing state")
	}

	state := models.NewBanditState("budget_bandit")
	state.Arms[models.BucketNeeds].Count = 3
	state.Arms[models.BucketNeeds].RewardSum = 2.25

	if err := store.SaveState(ctx, state); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	got, err := store.GetState(ctx, "budget_bandit")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if got.Arms[models.BucketNeeds].Count != 3 {
		t.Errorf("needs count = %d, want 3", got.Arms[models.BucketNeeds].Count)
	}
	if got.Arms[models.BucketNeeds].RewardSum != 2.25 {
		t.Errorf("needs reward sum = %v, want 2.25", got.Arms[models.BucketNeeds].RewardSum)
	}
	if got.UpdatedAt.IsZero() || time.Since(got.UpdatedAt) > time.Minute {
		t.Errorf("UpdatedAt not stamped: %v", got.UpdatedAt)
	}
}

func TestKeyValueStorage(t *testing.T) {
	mgr := newTestManager(t)
	kv := mgr.KeyValueStorage()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "knowledge_seeded_at"); err == nil {
		t.Fatal("expected error for missing key")
	}

	if err := kv.Set(ctx, "knowledge_seeded_at", "2026-01-01T00:00:00Z"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, err := kv.Get(ctx, "knowledge_seeded_at")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "2026-01-01T00:00:00Z" {
		t.Errorf("Get = %q", val)
	}

	if err := kv.Delete(ctx, "knowledge_seeded_at"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := kv.Get(ctx, "knowledge_seeded_at"); err == nil {
		t.Error("expected error after delete")
	}

	// Deleting a missing key is not an error
	if err := kv.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete of missing key returned error: %v", err)
	}
}
