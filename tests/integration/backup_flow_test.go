package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

func TestBackupFlow_ExportImportReplace(t *testing.T) {
	app := setupApp(t)
	token, _ := app.createWorkspace(t, "Source", "passphrase123")

	// Step 1: Build some data to export.
	rec := app.request("POST", "/api/v1/categories",
		`{"name":"Groceries","type":"expense"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating category, got %d: %s", rec.Code, rec.Body.String())
	}
	category := parseJSON(t, rec)["category"].(map[string]interface{})
	categoryID := category["id"].(string)

	rec = app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"type":"expense","amount_minor":4500,"currency":"USD","date_key":"2024-06-15","category_id":%q,"note":"weekly shop"}`, categoryID),
		token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating transaction, got %d: %s", rec.Code, rec.Body.String())
	}

	// Step 2: Export the snapshot.
	rec = app.request("GET", "/api/v1/backup/export", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 exporting, got %d: %s", rec.Code, rec.Body.String())
	}
	snapshot := rec.Body.String()

	// Step 3: Import into a fresh workspace. Replace without confirmation
	// must be rejected.
	targetToken, _ := app.createWorkspace(t, "Target", "passphrase123")

	body, err := json.Marshal(map[string]interface{}{
		"mode":     "replace",
		"snapshot": json.RawMessage(snapshot),
	})
	if err != nil {
		t.Fatalf("failed to build import body: %v", err)
	}
	rec = app.request("POST", "/api/v1/backup/import", string(body), targetToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unconfirmed replace, got %d: %s", rec.Code, rec.Body.String())
	}
	errBody := parseJSON(t, rec)["error"].(map[string]interface{})
	if errBody["code"] != "REPLACE_UNCONFIRMED" {
		t.Errorf("expected REPLACE_UNCONFIRMED, got %v", errBody["code"])
	}

	// Step 4: Confirmed replace applies the snapshot.
	body, err = json.Marshal(map[string]interface{}{
		"mode":            "replace",
		"confirm_replace": true,
		"snapshot":        json.RawMessage(snapshot),
	})
	if err != nil {
		t.Fatalf("failed to build import body: %v", err)
	}
	rec = app.request("POST", "/api/v1/backup/import", string(body), targetToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 importing, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)["result"].(map[string]interface{})
	if result["categories"].(float64) != 1 || result["transactions"].(float64) != 1 {
		t.Errorf("unexpected import result: %v", result)
	}

	// Step 5: The imported data is visible in the target workspace.
	rec = app.request("GET", "/api/v1/categories", "", targetToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing categories, got %d: %s", rec.Code, rec.Body.String())
	}
	cats := parseJSON(t, rec)["categories"].([]interface{})
	if len(cats) != 1 {
		t.Fatalf("expected 1 imported category, got %d", len(cats))
	}
	if cats[0].(map[string]interface{})["name"] != "Groceries" {
		t.Errorf("unexpected category: %v", cats[0])
	}
}

func TestBackupFlow_MergeKeepsExistingData(t *testing.T) {
	app := setupApp(t)
	sourceToken, _ := app.createWorkspace(t, "Source", "passphrase123")

	rec := app.request("POST", "/api/v1/categories",
		`{"name":"Travel","type":"expense"}`, sourceToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/backup/export", "", sourceToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 exporting, got %d: %s", rec.Code, rec.Body.String())
	}
	snapshot := rec.Body.String()

	targetToken, _ := app.createWorkspace(t, "Target", "passphrase123")
	rec = app.request("POST", "/api/v1/categories",
		`{"name":"Rent","type":"expense"}`, targetToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body, err := json.Marshal(map[string]interface{}{
		"mode":     "merge",
		"snapshot": json.RawMessage(snapshot),
	})
	if err != nil {
		t.Fatalf("failed to build import body: %v", err)
	}
	rec = app.request("POST", "/api/v1/backup/import", string(body), targetToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 importing, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/categories", "", targetToken)
	cats := parseJSON(t, rec)["categories"].([]interface{})
	if len(cats) != 2 {
		t.Fatalf("expected merged set of 2 categories, got %d", len(cats))
	}
}

func TestBackupFlow_RejectsForeignDocument(t *testing.T) {
	app := setupApp(t)
	token, _ := app.createWorkspace(t, "Home", "passphrase123")

	rec := app.request("POST", "/api/v1/backup/import",
		`{"mode":"merge","snapshot":{"app":"other-app","schemaVersion":1,"data":{}}}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	errBody := parseJSON(t, rec)["error"].(map[string]interface{})
	if errBody["code"] != "FORMAT_ERROR" {
		t.Errorf("expected FORMAT_ERROR, got %v", errBody["code"])
	}
}

func TestBackupFlow_RequiresAuth(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/backup/export", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}
