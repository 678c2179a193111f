// Package storage is the SQLite-backed implementation of the store ports.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"strike/internal/store"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) ListClients(ctx context.Context) ([]store.ClientRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, phone, locality FROM clients ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []store.ClientRecord
	for rows.Next() {
		var c store.ClientRecord
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Locality); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return out, nil
}

func (r *Repository) GetClient(ctx context.Context, id string) (store.ClientRecord, error) {
	var c store.ClientRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, locality FROM clients WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Locality)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ClientRecord{}, fmt.Errorf("client %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return store.ClientRecord{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *Repository) CreateClient(ctx context.Context, c store.ClientRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, email, phone, locality) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone, c.Locality)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *Repository) UpdateClient(ctx context.Context, c store.ClientRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, email = ?, phone = ?, locality = ? WHERE id = ?`,
		c.Name, c.Email, c.Phone, c.Locality, c.ID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return checkAffected(res, "client", c.ID)
}

func (r *Repository) DeleteClient(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return checkAffected(res, "client", id)
}

func (r *Repository) ListPaymentsByClient(ctx context.Context, clientID string) ([]store.PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, client_id, payment_date, expiration_date, method
		 FROM payments WHERE client_id = ? ORDER BY created_at, id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []store.PaymentRecord
	for rows.Next() {
		var p store.PaymentRecord
		if err := rows.Scan(&p.ID, &p.ClientID, &p.PaymentDate, &p.ExpirationDate, &p.Method); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return out, nil
}

func (r *Repository) GetPayment(ctx context.Context, id string) (store.PaymentRecord, error) {
	var p store.PaymentRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, client_id, payment_date, expiration_date, method FROM payments WHERE id = ?`, id).
		Scan(&p.ID, &p.ClientID, &p.PaymentDate, &p.ExpirationDate, &p.Method)
	if errors.Is(err, sql.ErrNoRows) {
		return store.PaymentRecord{}, fmt.Errorf("payment %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return store.PaymentRecord{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *Repository) CreatePayment(ctx context.Context, p store.PaymentRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, client_id, payment_date, expiration_date, method)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.ClientID, p.PaymentDate, p.ExpirationDate, p.Method)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *Repository) UpdatePayment(ctx context.Context, p store.PaymentRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET client_id = ?, payment_date = ?, expiration_date = ?, method = ?
		 WHERE id = ?`,
		p.ClientID, p.PaymentDate, p.ExpirationDate, p.Method, p.ID)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return checkAffected(res, "payment", p.ID)
}

func (r *Repository) DeletePayment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return checkAffected(res, "payment", id)
}

func checkAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
	}
	return nil
}
