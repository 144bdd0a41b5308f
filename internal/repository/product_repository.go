package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/avelios/catalog-api/internal/model"
)

// ProductRepo handles the product/item entity graph.  Items are owned by
// their product: writes replace the item set wholesale inside the same
// transaction as the product row, and deleting a product cascades to its
// items.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

// List returns one page of products with their items, plus the total row
// count for pagination.  Pages are zero-based.
func (r *ProductRepo) List(ctx context.Context, page, size int) ([]model.Product, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM product").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,product_name,created_by,created_on,modified_by,modified_on FROM product ORDER BY id LIMIT ? OFFSET ?",
		size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedBy, &p.CreatedOn, &p.ModifiedBy, &p.ModifiedOn); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range products {
		items, err := r.itemsFor(ctx, products[i].ID)
		if err != nil {
			return nil, 0, err
		}
		products[i].Items = items
	}
	return products, total, nil
}

// GetByID fetches a single product with its items.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	var p model.Product
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,product_name,created_by,created_on,modified_by,modified_on FROM product WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.CreatedBy, &p.CreatedOn, &p.ModifiedBy, &p.ModifiedOn)
	if err == sql.ErrNoRows {
		return model.Product{}, ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	items, err := r.itemsFor(ctx, p.ID)
	if err != nil {
		return model.Product{}, err
	}
	p.Items = items
	return p, nil
}

// Create inserts a product and its items in one transaction.  CreatedBy
// carries the authenticated username for the audit trail.
func (r *ProductRepo) Create(ctx context.Context, name, createdBy string, quantities []int) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO product (product_name, created_by, created_on) VALUES (?,?,?)",
		name, createdBy, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, q := range quantities {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO item (product_id, quantity) VALUES (?,?)", id, q); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update renames a product and replaces its items.  The old item rows are
// deleted and the new set inserted in the same transaction, mirroring
// orphan removal on the entity graph.
func (r *ProductRepo) Update(ctx context.Context, id uint64, name, modifiedBy string, quantities []int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE product SET product_name=?, modified_by=?, modified_on=? WHERE id=?",
		name, modifiedBy, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM item WHERE product_id=?", id); err != nil {
		return err
	}
	for _, q := range quantities {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO item (product_id, quantity) VALUES (?,?)", id, q); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a product and its items.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM item WHERE product_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		"DELETE FROM product WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return tx.Commit()
}

func (r *ProductRepo) itemsFor(ctx context.Context, productID uint64) ([]model.Item, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,product_id,quantity FROM item WHERE product_id=? ORDER BY id", productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
