package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pasarkirana/marketplace/internal/cart"
)

type OrderRepo struct{ DB *pgxpool.Pool }

// Insert menulis pesanan sebagai satu append atomik. Tidak ada multi-row
// transaction: baris order utuh atau tidak ada sama sekali.
func (r *OrderRepo) Insert(ctx context.Context, o Order) error {
	details, err := json.Marshal(o.OrderDetails)
	if err != nil {
		return fmt.Errorf("encode order details: %w", err)
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO orders(order_id, customer_name, customer_contact, order_details, total_price, order_status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		o.OrderID, o.CustomerName, o.CustomerContact, details, o.TotalPrice, string(o.OrderStatus), o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var details []byte
	var status string
	err := row.Scan(&o.OrderID, &o.CustomerName, &o.CustomerContact, &details, &o.TotalPrice, &status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return o, ErrOrderNotFound
	}
	if err != nil {
		return o, fmt.Errorf("scan order: %w", err)
	}
	o.OrderStatus = OrderStatus(status)
	if err := json.Unmarshal(details, &o.OrderDetails); err != nil {
		return o, fmt.Errorf("decode order details: %w", err)
	}
	return o, nil
}

const orderCols = `order_id, customer_name, customer_contact, order_details, total_price, order_status, created_at`

func (r *OrderRepo) Get(ctx context.Context, orderID string) (Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE order_id=$1`, orderID)
	return scanOrder(row)
}

func (r *OrderRepo) GetStatus(ctx context.Context, orderID string) (OrderStatus, error) {
	var s string
	err := r.DB.QueryRow(ctx, `SELECT order_status FROM orders WHERE order_id=$1`, orderID).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get order status: %w", err)
	}
	return OrderStatus(s), nil
}

// ListByVendor mengambil pesanan yang mengandung minimal satu line milik
// penjual, via containment query ke snapshot JSONB.
func (r *OrderRepo) ListByVendor(ctx context.Context, vendorID string) ([]Order, error) {
	needle, _ := json.Marshal([]map[string]string{{"vendor_id": vendorID}})
	rows, err := r.DB.Query(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE order_details @> $1::jsonb
		ORDER BY created_at DESC`, string(needle))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus mengganti status pesanan. Hanya penjual yang punya line di
// pesanan itu yang boleh; kepemilikan dicek lewat containment yang sama.
// Legalitas transisi sengaja tidak dicek (lihat status.go).
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID, vendorID string, status OrderStatus) error {
	needle, _ := json.Marshal([]map[string]string{{"vendor_id": vendorID}})
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET order_status=$3
		WHERE order_id=$1 AND order_details @> $2::jsonb`,
		orderID, string(needle), string(status))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ReportRow adalah satu baris laporan keuangan penjual.
type ReportRow struct {
	OrderID      string
	CustomerName string
	CreatedAt    string
	Lines        []cart.Line
	VendorTotal  int64
}

// VendorReport merangkum pesanan Selesai milik penjual untuk export CSV.
// Subtotal dihitung dari snapshot, bukan harga produk sekarang.
func (r *OrderRepo) VendorReport(ctx context.Context, vendorID string) ([]ReportRow, error) {
	orders, err := r.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	var out []ReportRow
	for _, o := range orders {
		if o.OrderStatus != StatusSelesai {
			continue
		}
		row := ReportRow{
			OrderID:      o.OrderID,
			CustomerName: o.CustomerName,
			CreatedAt:    o.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for _, l := range o.OrderDetails {
			if l.VendorID != vendorID {
				continue
			}
			row.Lines = append(row.Lines, l)
			row.VendorTotal += l.Subtotal()
		}
		if len(row.Lines) > 0 {
			out = append(out, row)
		}
	}
	return out, nil
}
