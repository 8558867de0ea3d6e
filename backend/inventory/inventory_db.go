package inventory

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/uptrace/bun"

	"stockdash/infrastructure/audit"
	"stockdash/infrastructure/sqlite"
	"stockdash/models"
)

func ListItems(ctx context.Context, db *sqlite.DB) ([]models.InventoryItem, error) {
	items := make([]models.InventoryItem, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&items).OrderExpr("ii.id ASC").Scan(ctx)
	})
	return items, err
}

func CreateItem(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor string, d models.Draft) (models.InventoryItem, error) {
	if err := ValidateDraft(d); err != nil {
		return models.InventoryItem{}, err
	}
	item := d.Item(0)
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&item).Exec(ctx); err != nil {
			return err
		}
		return writeAudit(ctx, tx, auditSvc, actor, audit.ActionCreate, item.ID, nil, item)
	})
	if err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// UpdateItem replaces every mutable field of id with d.
func UpdateItem(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor string, id int64, d models.Draft) (models.InventoryItem, error) {
	if err := ValidateDraft(d); err != nil {
		return models.InventoryItem{}, err
	}
	after := d.Item(id)
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		before, err := loadItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.NewUpdate().Model(&after).WherePK().Exec(ctx); err != nil {
			return err
		}
		return writeAudit(ctx, tx, auditSvc, actor, audit.ActionUpdate, id, before, after)
	})
	if err != nil {
		return models.InventoryItem{}, err
	}
	return after, nil
}

func DeleteItem(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor string, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		before, err := loadItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model(&before).WherePK().Exec(ctx); err != nil {
			return err
		}
		return writeAudit(ctx, tx, auditSvc, actor, audit.ActionDelete, id, before, nil)
	})
}

func loadItem(ctx context.Context, tx bun.Tx, id int64) (models.InventoryItem, error) {
	var item models.InventoryItem
	err := tx.NewSelect().Model(&item).Where("ii.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return item, ErrNotFound
	}
	return item, err
}

func writeAudit(ctx context.Context, tx bun.Tx, auditSvc *audit.Service, actor, action string, id int64, before, after any) error {
	if auditSvc == nil {
		return nil
	}
	return auditSvc.Write(ctx, tx, actor, action, entityType, strconv.FormatInt(id, 10), before, after)
}
