package inventory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"stockdash/infrastructure/audit"
	"stockdash/infrastructure/sqlite"
	"stockdash/models"
)

func openInventoryTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "inventory-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := sqlite.Migrate(context.Background(), db, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func bolt() models.Draft {
	return models.Draft{Name: "Bolt", Category: "Hardware", Quantity: 3, Threshold: 10, Location: "A1"}
}

func TestCreateItem_AssignsIDAndAudits(t *testing.T) {
	db := openInventoryTestDB(t)
	auditSvc := audit.NewService()

	item, err := CreateItem(context.Background(), db, auditSvc, "tester", bolt())
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.ID <= 0 {
		t.Fatalf("expected assigned id, got %d", item.ID)
	}

	items, err := ListItems(context.Background(), db)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 || items[0] != item {
		t.Fatalf("unexpected items: %+v", items)
	}

	history, err := auditSvc.History(context.Background(), db.R, entityType, "1")
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(history) != 1 || history[0].Action != audit.ActionCreate || history[0].Actor != "tester" {
		t.Fatalf("unexpected audit history: %+v", history)
	}
	if history[0].BeforeJSON != "" || history[0].AfterJSON == "" {
		t.Fatalf("expected only after snapshot, got %+v", history[0])
	}
}

func TestCreateItem_RejectsBlankName(t *testing.T) {
	db := openInventoryTestDB(t)

	_, err := CreateItem(context.Background(), db, nil, "", models.Draft{Name: "  "})
	if !errors.Is(err, ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft, got %v", err)
	}
}

func TestUpdateItem_ReplacesFields(t *testing.T) {
	db := openInventoryTestDB(t)
	created, err := CreateItem(context.Background(), db, nil, "", bolt())
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	next := models.Draft{Name: "Bolt M8", Category: "Fasteners", Quantity: 40, Threshold: 10, Location: "B2"}
	updated, err := UpdateItem(context.Background(), db, audit.NewService(), "", created.ID, next)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated != next.Item(created.ID) {
		t.Fatalf("unexpected updated item: %+v", updated)
	}

	items, err := ListItems(context.Background(), db)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 || items[0] != updated {
		t.Fatalf("store not updated: %+v", items)
	}
}

func TestUpdateAndDelete_MissingID(t *testing.T) {
	db := openInventoryTestDB(t)

	if _, err := UpdateItem(context.Background(), db, nil, "", 42, bolt()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := DeleteItem(context.Background(), db, nil, "", 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteItem_RemovesRow(t *testing.T) {
	db := openInventoryTestDB(t)
	created, err := CreateItem(context.Background(), db, nil, "", bolt())
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if err := DeleteItem(context.Background(), db, audit.NewService(), "", created.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	items, err := ListItems(context.Background(), db)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty store, got %+v", items)
	}
}
