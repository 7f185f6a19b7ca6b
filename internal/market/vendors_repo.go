package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VendorRepo struct{ DB *pgxpool.Pool }

const vendorCols = `vendor_id, vendor_name, username, password_hash, whatsapp_number,
	status, is_active, bank_account, qris_image_url, reset_status, pending_password_hash, created_at`

func scanVendor(row pgx.Row) (Vendor, error) {
	var v Vendor
	err := row.Scan(&v.VendorID, &v.VendorName, &v.Username, &v.PasswordHash, &v.WhatsappNumber,
		&v.Status, &v.IsActive, &v.BankAccount, &v.QRISImageURL, &v.ResetStatus, &v.PendingPasswordHash, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return v, ErrVendorNotFound
	}
	if err != nil {
		return v, fmt.Errorf("scan vendor: %w", err)
	}
	return v, nil
}

// Create mendaftarkan penjual baru dengan status pending. Username unik
// dijaga oleh constraint; pelanggaran dikembalikan sebagai ErrUsernameTaken.
func (r *VendorRepo) Create(ctx context.Context, v Vendor) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO vendors(vendor_id, vendor_name, username, password_hash, whatsapp_number,
		                    status, is_active, bank_account, qris_image_url, reset_status, pending_password_hash)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,'none','')`,
		v.VendorID, v.VendorName, v.Username, v.PasswordHash, v.WhatsappNumber,
		v.Status, v.IsActive, v.BankAccount, v.QRISImageURL)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

func (r *VendorRepo) Get(ctx context.Context, vendorID string) (Vendor, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+vendorCols+` FROM vendors WHERE vendor_id=$1`, vendorID)
	return scanVendor(row)
}

func (r *VendorRepo) GetByUsername(ctx context.Context, username string) (Vendor, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+vendorCols+` FROM vendors WHERE username=$1`, username)
	return scanVendor(row)
}

func (r *VendorRepo) list(ctx context.Context, where string, args ...any) ([]Vendor, error) {
	q := `SELECT ` + vendorCols + ` FROM vendors`
	if where != "" {
		q += ` WHERE ` + where
	}
	q += ` ORDER BY created_at`
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var out []Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VendorRepo) ListAll(ctx context.Context) ([]Vendor, error) {
	return r.list(ctx, "")
}

func (r *VendorRepo) ListPending(ctx context.Context) ([]Vendor, error) {
	return r.list(ctx, `status='pending'`)
}

// ListPendingResets mengambil penjual yang sedang minta reset password.
func (r *VendorRepo) ListPendingResets(ctx context.Context) ([]Vendor, error) {
	return r.list(ctx, `reset_status='pending'`)
}

// SetStatus dipakai admin untuk approve/reject pendaftaran.
func (r *VendorRepo) SetStatus(ctx context.Context, vendorID string, status VendorStatus) error {
	return r.exec1(ctx, `UPDATE vendors SET status=$2 WHERE vendor_id=$1`, vendorID, string(status))
}

func (r *VendorRepo) SetActive(ctx context.Context, vendorID string, active bool) error {
	return r.exec1(ctx, `UPDATE vendors SET is_active=$2 WHERE vendor_id=$1`, vendorID, active)
}

// UpdatePayment menyimpan info pembayaran penjual (rekening & QRIS).
func (r *VendorRepo) UpdatePayment(ctx context.Context, vendorID, bankAccount, qrisImageURL string) error {
	return r.exec1(ctx, `UPDATE vendors SET bank_account=$2, qris_image_url=$3 WHERE vendor_id=$1`,
		vendorID, bankAccount, qrisImageURL)
}

// RequestPasswordReset menyimpan hash password baru sebagai pending sampai
// admin memutuskan.
func (r *VendorRepo) RequestPasswordReset(ctx context.Context, username, pendingHash string) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE vendors SET reset_status='pending', pending_password_hash=$2
		WHERE username=$1`, username, pendingHash)
	if err != nil {
		return fmt.Errorf("request reset: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrVendorNotFound
	}
	return nil
}

// ResolvePasswordReset: approve mempromosikan pending hash jadi password,
// reject membuangnya. Dua-duanya mengembalikan reset_status ke none.
func (r *VendorRepo) ResolvePasswordReset(ctx context.Context, vendorID string, approve bool) error {
	var q string
	if approve {
		q = `UPDATE vendors
		     SET password_hash=pending_password_hash, pending_password_hash='', reset_status='none'
		     WHERE vendor_id=$1 AND reset_status='pending' AND pending_password_hash<>''`
	} else {
		q = `UPDATE vendors SET pending_password_hash='', reset_status='none'
		     WHERE vendor_id=$1 AND reset_status='pending'`
	}
	ct, err := r.DB.Exec(ctx, q, vendorID)
	if err != nil {
		return fmt.Errorf("resolve reset: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrVendorNotFound
	}
	return nil
}

func (r *VendorRepo) exec1(ctx context.Context, q string, args ...any) error {
	ct, err := r.DB.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", strings.Fields(q)[0], err)
	}
	if ct.RowsAffected() == 0 {
		return ErrVendorNotFound
	}
	return nil
}
