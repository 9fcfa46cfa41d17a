package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (taxonomy/products/stock)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure operator accounts exist (idempotent; safe every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Category taxonomy. Products reference categories by name because the
-- admin client filters on the label, not the id.
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

CREATE TABLE IF NOT EXISTS subcategories(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
  name TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_subcategories_cat_name ON subcategories(category_id, LOWER(name));

-- Catalog
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  sub_category TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  description2 TEXT NOT NULL DEFAULT '',
  ean_code TEXT NOT NULL DEFAULT '',
  serial_number TEXT NOT NULL DEFAULT '',
  bestseller INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_ean      ON products(ean_code);

-- Stock ledger: four counters (condition x location) + price per condition.
-- Prices are stored as TEXT and scanned into decimals.
CREATE TABLE IF NOT EXISTS stock_records(
  product_id TEXT PRIMARY KEY REFERENCES products(id) ON DELETE CASCADE,
  qty_stock_new  INTEGER NOT NULL DEFAULT 0 CHECK (qty_stock_new  >= 0),
  qty_stock_used INTEGER NOT NULL DEFAULT 0 CHECK (qty_stock_used >= 0),
  qty_store_new  INTEGER NOT NULL DEFAULT 0 CHECK (qty_store_new  >= 0),
  qty_store_used INTEGER NOT NULL DEFAULT 0 CHECK (qty_store_used >= 0),
  price_new  TEXT NOT NULL DEFAULT '0',
  price_used TEXT NOT NULL DEFAULT '0',
  documents_json TEXT NOT NULL DEFAULT '[]',
  updated_at TEXT
);

-- One row per physical unit when items need their own EAN/serial.
-- Row counts per (product, condition, location) shadow the counters.
CREATE TABLE IF NOT EXISTS stock_units(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  ean_code TEXT NOT NULL DEFAULT '',
  serial_number TEXT NOT NULL DEFAULT '',
  condition TEXT NOT NULL CHECK (condition IN ('new','used')),
  location  TEXT NOT NULL CHECK (location IN ('stock','store')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_stock_units_product ON stock_units(product_id);
CREATE INDEX IF NOT EXISTS idx_stock_units_bucket  ON stock_units(product_id, condition, location);

-- Buybacks
CREATE TABLE IF NOT EXISTS buybacks(
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  nationality TEXT NOT NULL DEFAULT '',
  residence TEXT NOT NULL DEFAULT '',
  date_of_birth TEXT NOT NULL DEFAULT '',
  phone_number TEXT NOT NULL DEFAULT '',
  percent TEXT NOT NULL DEFAULT '60',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS buyback_items(
  id TEXT PRIMARY KEY,
  buyback_id TEXT NOT NULL REFERENCES buybacks(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  reference_price TEXT NOT NULL DEFAULT '0',
  buyback_price TEXT NOT NULL DEFAULT '0',
  overridden INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_buyback_items_buyback ON buyback_items(buyback_id);

-- Shop orders, managed (status/delete) from the admin screens.
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  street TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  zipcode TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  payment_method TEXT NOT NULL DEFAULT 'COD',
  payment INTEGER NOT NULL DEFAULT 0,
  amount TEXT NOT NULL DEFAULT '0',
  status TEXT NOT NULL DEFAULT 'Order Placed',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS order_items(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  size TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

-- Gaming corner
CREATE TABLE IF NOT EXISTS consoles(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reservations(
  id TEXT PRIMARY KEY,
  console_id TEXT NOT NULL REFERENCES consoles(id) ON DELETE CASCADE,
  date_time TEXT NOT NULL,
  duration_hours INTEGER NOT NULL DEFAULT 1,
  persons INTEGER NOT NULL DEFAULT 1,
  customer_name TEXT NOT NULL DEFAULT '',
  phone_number TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_reservations_console ON reservations(console_id);

-- Operators & bearer tokens
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS tokens(
  token TEXT PRIMARY KEY,
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_tokens_user ON tokens(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo taxonomy/products/stock")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  ('cat-konzoly','Konzoly'),
	  ('cat-hry','Hry'),
	  ('cat-prislusenstvo','Príslušenstvo')`)

	tx.MustExec(`INSERT INTO subcategories(id,category_id,name) VALUES
	  ('sub-playstation','cat-konzoly','PlayStation'),
	  ('sub-nintendo','cat-konzoly','Nintendo'),
	  ('sub-ps2-hry','cat-hry','PlayStation 2')`)

	tx.MustExec(`INSERT INTO products(id,name,category,sub_category,description,ean_code) VALUES
	  ('ps2-001','PlayStation 2 Slim','Konzoly','PlayStation','Konzola s ovládačom, testovaná.','8711234567890'),
	  ('gbc-001','Game Boy Color','Konzoly','Nintendo','Vreckové herné zariadenie.','4902370501122'),
	  ('gta-sa-001','GTA San Andreas (PS2)','Hry','PlayStation 2','Kompletné balenie s manuálom.','5026555301234')`)

	tx.MustExec(`INSERT INTO stock_records(product_id,qty_stock_new,qty_stock_used,qty_store_new,qty_store_used,price_new,price_used) VALUES
	  ('ps2-001',2,3,0,1,'129.99','77.99'),
	  ('gbc-001',0,2,0,0,'149.00','89.40'),
	  ('gta-sa-001',5,0,3,0,'24.90','14.94')`)

	tx.MustExec(`INSERT INTO consoles(id,name) VALUES
	  ('console-ps5','PlayStation 5'),
	  ('console-xsx','Xbox Series X')`)

	tx.MustExec(`INSERT INTO orders(id,first_name,last_name,street,city,country,zipcode,phone,payment_method,payment,amount,status) VALUES
	  ('order-demo-1','Peter','Kovac','Hlavna 12','Kosice','Slovensko','04001','+421900123456','COD',0,'154.89','Order Placed')`)
	tx.MustExec(`INSERT INTO order_items(id,order_id,product_id,name,quantity,size) VALUES
	  ('oi-demo-1','order-demo-1','ps2-001','PlayStation 2 Slim',1,''),
	  ('oi-demo-2','order-demo-1','gta-sa-001','GTA San Andreas (PS2)',1,'')`)

	return tx.Commit()
}

// seedUsers ensures one operator and one admin exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-operator", "operator@zanovi.test", "Operator", "USER", "Passw0rd!"),
		mk("u-admin", "admin@zanovi.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
