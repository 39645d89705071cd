package store

import (
	"database/sql"
	"fmt"
	"time"
)

type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Unit      string    `json:"unit"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	var createdAt any
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Unit, &p.Enabled, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

func (db *DB) CreateProduct(p *Product) error {
	_, err := db.Exec(db.Q(`INSERT INTO master_products (id, name, category, unit, enabled) VALUES (?, ?, ?, ?, ?)`),
		p.ID, p.Name, p.Category, p.Unit, p.Enabled)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (db *DB) GetProduct(id string) (*Product, error) {
	row := db.QueryRow(db.Q(`SELECT id, name, category, unit, enabled, created_at FROM master_products WHERE id=?`), id)
	return scanProduct(row)
}

func (db *DB) ListProducts() ([]*Product, error) {
	rows, err := db.Query(`SELECT id, name, category, unit, enabled, created_at FROM master_products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (db *DB) productExists(id string) (bool, error) {
	var one int
	err := db.QueryRow(db.Q(`SELECT 1 FROM master_products WHERE id=?`), id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
