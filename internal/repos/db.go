package repos

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an update or delete matched no row.
var ErrNotFound = errors.New("record not found")

// DefaultCategories are created on first start when the store is empty.
var DefaultCategories = []string{"Nighties", "Petticoat", "Plazo", "Blouse"}

func OpenDB(dsn, defaultPIN string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection: keeps :memory: databases shared and writes serialized
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := seedCategoriesIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure the admin row exists (idempotent; safe to run every start)
	if err := seedAdmin(db, defaultPIN); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  image_url TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- Products (no FK: category cascade is done by the service)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  mrp NUMERIC NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL DEFAULT 0,
  quantity INTEGER,               -- NULL on legacy rows
  in_stock INTEGER,               -- legacy flag, read only when quantity is NULL
  image_url TEXT,
  color_options TEXT,
  size_options TEXT,
  variant_images TEXT,            -- JSON object variant -> image
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

-- Admin config: exactly one row
CREATE TABLE IF NOT EXISTS admin_config(
  id INTEGER PRIMARY KEY CHECK (id = 1),
  pin_hash TEXT NOT NULL,
  security_question TEXT,
  security_answer_hash TEXT,
  updated_at TEXT
);

-- Orders: one row per WhatsApp enquiry handed off
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  session_id TEXT,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  color TEXT,
  size TEXT,
  price NUMERIC NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedCategoriesIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting default categories")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()
	for _, name := range DefaultCategories {
		if _, err := tx.Exec(`INSERT INTO categories(id,name) VALUES(?,?)`, uuid.NewString(), name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedAdmin creates the admin row with the default PIN when it is missing.
func seedAdmin(db *sqlx.DB, defaultPIN string) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM admin_config WHERE id = 1`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if defaultPIN == "" {
		return errors.New("default admin PIN is empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(defaultPIN), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	log.Println("[seed] admin PIN initialised to default")
	_, err = db.Exec(`INSERT INTO admin_config(id,pin_hash) VALUES(1,?) ON CONFLICT(id) DO NOTHING`, string(h))
	return err
}

func affected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
