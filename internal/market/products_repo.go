package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepo struct{ DB *pgxpool.Pool }

const productCols = `product_id, vendor_id, product_name, description, price,
	image_url, stock_quantity, is_active, category, last_updated`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ProductID, &p.VendorID, &p.ProductName, &p.Description, &p.Price,
		&p.ImageURL, &p.StockQuantity, &p.IsActive, &p.Category, &p.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, ErrProductNotFound
	}
	if err != nil {
		return p, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) Get(ctx context.Context, productID string) (Product, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE product_id=$1`, productID)
	return scanProduct(row)
}

// GetVisible seperti Get tapi hanya mengembalikan produk yang boleh dilihat
// shopper: produk aktif milik penjual approved yang aktif.
func (r *ProductRepo) GetVisible(ctx context.Context, productID string) (Product, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+productColsPrefixed+`
		FROM products p
		JOIN vendors v ON v.vendor_id = p.vendor_id
		WHERE p.product_id=$1 AND p.is_active AND v.is_active AND v.status='approved'`, productID)
	return scanProduct(row)
}

const productColsPrefixed = `p.product_id, p.vendor_id, p.product_name, p.description, p.price,
	p.image_url, p.stock_quantity, p.is_active, p.category, p.last_updated`

// ListVisible mengembalikan katalog shopper: join produk+penjual, difilter
// invariant visibilitas (product aktif, vendor aktif dan approved).
func (r *ProductRepo) ListVisible(ctx context.Context) ([]CatalogItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+productColsPrefixed+`, v.vendor_name
		FROM products p
		JOIN vendors v ON v.vendor_id = p.vendor_id
		WHERE p.is_active AND v.is_active AND v.status='approved'
		ORDER BY p.product_name`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var out []CatalogItem
	for rows.Next() {
		var it CatalogItem
		if err := rows.Scan(&it.ProductID, &it.VendorID, &it.ProductName, &it.Description, &it.Price,
			&it.ImageURL, &it.StockQuantity, &it.IsActive, &it.Category, &it.LastUpdated, &it.VendorName); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListByVendor untuk dashboard penjual; activeOnly nil = semua.
func (r *ProductRepo) ListByVendor(ctx context.Context, vendorID string, activeOnly *bool) ([]Product, error) {
	q := `SELECT ` + productCols + ` FROM products WHERE vendor_id=$1`
	args := []any{vendorID}
	if activeOnly != nil {
		q += ` AND is_active=$2`
		args = append(args, *activeOnly)
	}
	q += ` ORDER BY last_updated DESC`
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) Create(ctx context.Context, p Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(product_id, vendor_id, product_name, description, price,
		                     image_url, stock_quantity, is_active, category, last_updated)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ProductID, p.VendorID, p.ProductName, p.Description, p.Price,
		p.ImageURL, p.StockQuantity, p.IsActive, p.Category, p.LastUpdated)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update menulis ulang seluruh baris (last-write-wins, tanpa deteksi konflik)
// dan hanya kalau produk memang milik penjual tersebut.
func (r *ProductRepo) Update(ctx context.Context, p Product) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET product_name=$3, description=$4, price=$5, image_url=$6,
		    stock_quantity=$7, is_active=$8, category=$9, last_updated=$10
		WHERE product_id=$1 AND vendor_id=$2`,
		p.ProductID, p.VendorID, p.ProductName, p.Description, p.Price,
		p.ImageURL, p.StockQuantity, p.IsActive, p.Category, p.LastUpdated)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) SetImageURL(ctx context.Context, productID, vendorID, imageURL string, now time.Time) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET image_url=$3, last_updated=$4
		WHERE product_id=$1 AND vendor_id=$2`, productID, vendorID, imageURL, now)
	if err != nil {
		return fmt.Errorf("set image url: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, productID, vendorID string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE product_id=$1 AND vendor_id=$2`, productID, vendorID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock mengurangi stok sejumlah item pesanan, lock per baris
// (FOR UPDATE). Stok tidak pernah dibawa ke bawah nol; kekurangan stok
// bukan error, pesanan tetap jalan (best effort).
func (r *ProductRepo) DecrementStock(ctx context.Context, items map[string]int) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for productID, qty := range items {
		var stock int
		err := tx.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE product_id=$1 FOR UPDATE`, productID).Scan(&stock)
		if errors.Is(err, pgx.ErrNoRows) {
			continue // produk sudah dihapus penjual; skip
		}
		if err != nil {
			return fmt.Errorf("lock product %s: %w", productID, err)
		}
		if qty > stock {
			qty = stock
		}
		if qty == 0 {
			continue
		}
		if _, err := tx.Exec(ctx, `
			UPDATE products SET stock_quantity = stock_quantity - $2 WHERE product_id=$1`,
			productID, qty); err != nil {
			return fmt.Errorf("decrement stock %s: %w", productID, err)
		}
	}
	return tx.Commit(ctx)
}
