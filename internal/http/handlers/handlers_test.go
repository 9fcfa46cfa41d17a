package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"zanovi/internal/http/handlers"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	schema := `
	CREATE TABLE categories(id TEXT PRIMARY KEY, name TEXT NOT NULL, created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE subcategories(id TEXT PRIMARY KEY, category_id TEXT NOT NULL, name TEXT NOT NULL);
	CREATE TABLE products(id TEXT PRIMARY KEY, name TEXT NOT NULL, category TEXT NOT NULL,
	  sub_category TEXT NOT NULL DEFAULT '', description TEXT NOT NULL DEFAULT '',
	  description2 TEXT NOT NULL DEFAULT '', ean_code TEXT NOT NULL DEFAULT '',
	  serial_number TEXT NOT NULL DEFAULT '', bestseller INTEGER NOT NULL DEFAULT 0,
	  active INTEGER NOT NULL DEFAULT 1, created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE stock_records(product_id TEXT PRIMARY KEY,
	  qty_stock_new INTEGER NOT NULL DEFAULT 0 CHECK (qty_stock_new >= 0),
	  qty_stock_used INTEGER NOT NULL DEFAULT 0 CHECK (qty_stock_used >= 0),
	  qty_store_new INTEGER NOT NULL DEFAULT 0 CHECK (qty_store_new >= 0),
	  qty_store_used INTEGER NOT NULL DEFAULT 0 CHECK (qty_store_used >= 0),
	  price_new TEXT NOT NULL DEFAULT '0', price_used TEXT NOT NULL DEFAULT '0',
	  documents_json TEXT NOT NULL DEFAULT '[]', updated_at TEXT);
	CREATE TABLE stock_units(id TEXT PRIMARY KEY, product_id TEXT NOT NULL,
	  ean_code TEXT NOT NULL DEFAULT '', serial_number TEXT NOT NULL DEFAULT '',
	  condition TEXT NOT NULL, location TEXT NOT NULL, created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE buybacks(id TEXT PRIMARY KEY, first_name TEXT NOT NULL, last_name TEXT NOT NULL,
	  nationality TEXT NOT NULL DEFAULT '', residence TEXT NOT NULL DEFAULT '',
	  date_of_birth TEXT NOT NULL DEFAULT '', phone_number TEXT NOT NULL DEFAULT '',
	  percent TEXT NOT NULL DEFAULT '60', created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE buyback_items(id TEXT PRIMARY KEY, buyback_id TEXT NOT NULL,
	  product_id TEXT NOT NULL DEFAULT '', name TEXT NOT NULL, category TEXT NOT NULL DEFAULT '',
	  reference_price TEXT NOT NULL DEFAULT '0', buyback_price TEXT NOT NULL DEFAULT '0',
	  overridden INTEGER NOT NULL DEFAULT 0);
	CREATE TABLE consoles(id TEXT PRIMARY KEY, name TEXT NOT NULL, created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE reservations(id TEXT PRIMARY KEY, console_id TEXT NOT NULL, date_time TEXT NOT NULL,
	  duration_hours INTEGER NOT NULL DEFAULT 1, persons INTEGER NOT NULL DEFAULT 1,
	  customer_name TEXT NOT NULL DEFAULT '', phone_number TEXT NOT NULL DEFAULT '',
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE users(id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, name TEXT NOT NULL,
	  password_hash TEXT NOT NULL, role TEXT NOT NULL, created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE tokens(token TEXT PRIMARY KEY, user_id TEXT, created_at TEXT DEFAULT CURRENT_TIMESTAMP, last_seen TEXT);

	INSERT INTO categories(id,name) VALUES ('cat-konzoly','Konzoly');
	INSERT INTO products(id,name,category,sub_category,ean_code) VALUES
	  ('ps2-001','PlayStation 2 Slim','Konzoly','PlayStation','111'),
	  ('gbc-001','Game Boy Color','Konzoly','','222');
	INSERT INTO stock_records(product_id,qty_stock_new,qty_stock_used,price_new,price_used) VALUES
	  ('ps2-001',2,1,'129.99','77.99'),
	  ('gbc-001',0,0,'149.00','89.40');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	db.MustExec(`INSERT INTO users(id,email,name,password_hash,role) VALUES ('u-op','operator@zanovi.test','Operator',?,'USER')`, string(hash))
	return db
}

func testApp(t *testing.T) (*fiber.App, *handlers.Deps) {
	t.Helper()
	db := memdb(t)
	deps := handlers.NewDeps(db, 60)

	app := fiber.New()
	api := app.Group("/api")
	api.Post("/auth/login", deps.Auth.Login)

	api.Use(handlers.RequireUser(deps.Auth.Auth))
	authed := api
	authed.Get("/product/all", deps.Products.List)
	authed.Put("/product/update-quantity/:id", deps.Products.UpdateQuantity)
	authed.Get("/warehouse/grouped", deps.Warehouse.Grouped)
	authed.Get("/warehouse/units", deps.Warehouse.Units)
	authed.Post("/warehouse/scan", deps.Warehouse.Scan)
	authed.Post("/warehouse/scan/batch", deps.Warehouse.ScanBatch)
	return app, deps
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var payload map[string]any
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &payload)
	return resp, payload
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, payload := doJSON(t, app, "POST", "/api/auth/login", "", map[string]any{
		"email": "operator@zanovi.test", "password": "Passw0rd!",
	})
	if resp.StatusCode != 200 {
		t.Fatalf("login failed: %d %v", resp.StatusCode, payload)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatalf("no token in %v", payload)
	}
	return token
}

func TestLogin_BadCredentials(t *testing.T) {
	app, _ := testApp(t)
	resp, payload := doJSON(t, app, "POST", "/api/auth/login", "", map[string]any{
		"email": "operator@zanovi.test", "password": "WrongPass1!",
	})
	if resp.StatusCode != 401 {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
	if payload["success"] != false {
		t.Fatalf("want failure envelope, got %v", payload)
	}
}

func TestRoutes_RequireToken(t *testing.T) {
	app, _ := testApp(t)
	resp, _ := doJSON(t, app, "GET", "/api/product/all", "", nil)
	if resp.StatusCode != 401 {
		t.Fatalf("want 401 without token, got %d", resp.StatusCode)
	}
}

func TestGrouped_ReturnsGenerationAndBuckets(t *testing.T) {
	app, _ := testApp(t)
	token := login(t, app)

	resp, payload := doJSON(t, app, "GET", "/api/warehouse/grouped", token, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if _, hasGen := payload["generation"]; !hasGen {
		t.Fatalf("missing generation: %v", payload)
	}
	grouped, _ := payload["grouped"].(map[string]any)
	konzoly, _ := grouped["Konzoly"].(map[string]any)
	if konzoly == nil {
		t.Fatalf("missing Konzoly bucket: %v", payload)
	}
	if _, hasGeneral := konzoly["General"]; !hasGeneral {
		t.Fatalf("product without subcategory must land in General: %v", konzoly)
	}
}

func TestScan_AddUnknownCode(t *testing.T) {
	app, _ := testApp(t)
	token := login(t, app)

	resp, payload := doJSON(t, app, "POST", "/api/warehouse/scan", token, map[string]any{
		"eanCode": "999", "condition": "new", "location": "stock", "intent": "add",
	})
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d (%v)", resp.StatusCode, payload)
	}
	if payload["outcome"] != "create_required" {
		t.Fatalf("want create_required, got %v", payload)
	}
}

func TestScan_RemoveAtZeroConflicts(t *testing.T) {
	app, _ := testApp(t)
	token := login(t, app)

	resp, payload := doJSON(t, app, "POST", "/api/warehouse/scan", token, map[string]any{
		"eanCode": "222", "condition": "new", "location": "stock", "intent": "remove",
	})
	if resp.StatusCode != 409 {
		t.Fatalf("want 409, got %d (%v)", resp.StatusCode, payload)
	}
	if payload["success"] != false {
		t.Fatalf("want failure envelope, got %v", payload)
	}
}

func TestScan_StaleGenerationConflicts(t *testing.T) {
	app, deps := testApp(t)
	token := login(t, app)

	deps.Gen.Bump()
	stale := deps.Gen.Current()
	deps.Gen.Bump() // another operator mutates after the client rendered

	resp, _ := doJSON(t, app, "POST", "/api/warehouse/scan", token, map[string]any{
		"eanCode": "111", "condition": "new", "location": "stock", "intent": "add",
		"generation": stale,
	})
	if resp.StatusCode != 409 {
		t.Fatalf("want 409 for stale generation, got %d", resp.StatusCode)
	}
}

func TestScanBatch_Partitions(t *testing.T) {
	app, _ := testApp(t)
	token := login(t, app)

	resp, payload := doJSON(t, app, "POST", "/api/warehouse/scan/batch", token, map[string]any{
		"eanCodes": []string{"111", "999"},
	})
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	existing, _ := payload["existing"].([]any)
	missing, _ := payload["missing"].([]any)
	if len(existing) != 1 || len(missing) != 1 {
		t.Fatalf("bad partition: %v", payload)
	}
}

func TestUpdateQuantity_StepGuard(t *testing.T) {
	app, _ := testApp(t)
	token := login(t, app)

	resp, _ := doJSON(t, app, "PUT", "/api/product/update-quantity/ps2-001", token, map[string]any{
		"condition": "new", "location": "stock", "delta": 5,
	})
	if resp.StatusCode != 400 {
		t.Fatalf("multi-step deltas must be rejected, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "PUT", "/api/product/update-quantity/ps2-001", token, map[string]any{
		"condition": "new", "location": "stock", "delta": -1,
	})
	if resp.StatusCode != 200 {
		t.Fatalf("single-step delta should pass, got %d", resp.StatusCode)
	}
}
