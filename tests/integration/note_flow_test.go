package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

// TestNoteLifecycle drives register → login → create → edit → delete against
// a running server. Moderation endpoints are also probed: a fresh account
// holds the regular role, so they must answer 403.
func TestNoteLifecycle(t *testing.T) {
	baseURL := os.Getenv("INTEGRATION_BASE_URL")
	if baseURL == "" {
		t.Skip("INTEGRATION_BASE_URL not set; skipping integration test")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	username := fmt.Sprintf("it_user_%d", time.Now().UnixNano())
	password := "Passw0rd!"
	device := "integration"
	mobile := fmt.Sprintf("138%08d", time.Now().UnixNano()%100000000)

	// 1. Register + login
	registerReq := map[string]string{
		"username": username,
		"password": password,
		"nickname": username + "-nick",
		"mobile":   mobile,
	}
	if _, err := postJSON(client, baseURL+"/users/register", registerReq, nil, http.StatusOK); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	headers := map[string]string{"X-Device": device}
	loginResp, err := postJSON(client, baseURL+"/users/login",
		map[string]string{"username": username, "password": password}, headers, http.StatusOK)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	authHeaders := map[string]string{
		"Authorization": "Bearer " + loginResp["access_token"].(string),
		"X-Device":      device,
	}

	// 2. Create a note with out-of-order media
	createReq := map[string]interface{}{
		"title":    "Lijiang",
		"content":  "three days in the old town",
		"location": "Lijiang",
		"media": []map[string]interface{}{
			{"kind": "image", "url": "/uploads/a.jpg", "sort_order": 1},
			{"kind": "image", "url": "/uploads/b.jpg", "sort_order": 0},
		},
	}
	note, err := doJSON(client, http.MethodPost, baseURL+"/notes", createReq, authHeaders, http.StatusOK)
	if err != nil {
		t.Fatalf("create note failed: %v", err)
	}
	if note["status"] != "pending" {
		t.Fatalf("new note status = %v, want pending", note["status"])
	}
	mediaList, _ := note["media"].([]interface{})
	if len(mediaList) != 2 {
		t.Fatalf("media count = %d, want 2", len(mediaList))
	}
	first, _ := mediaList[0].(map[string]interface{})
	if first["url"] != "/uploads/b.jpg" {
		t.Fatalf("media not sorted by sort_order: first = %v", first["url"])
	}
	noteID := fmt.Sprintf("%.0f", note["id"].(float64))

	// 3. Pending note is invisible anonymously but visible to its owner
	if _, err := doJSON(client, http.MethodGet, baseURL+"/notes/"+noteID, nil, nil, http.StatusForbidden); err != nil {
		t.Fatalf("anonymous fetch of pending note: %v", err)
	}
	if _, err := doJSON(client, http.MethodGet, baseURL+"/notes/"+noteID, nil, authHeaders, http.StatusOK); err != nil {
		t.Fatalf("owner fetch of pending note: %v", err)
	}

	// 4. Regular role cannot use review endpoints
	if _, err := doJSON(client, http.MethodGet, baseURL+"/review/notes", nil, authHeaders, http.StatusForbidden); err != nil {
		t.Fatalf("review queue as regular user: %v", err)
	}
	setStatus := map[string]string{"status": "approved"}
	if _, err := doJSON(client, http.MethodPut, baseURL+"/review/notes/"+noteID+"/status", setStatus, authHeaders, http.StatusForbidden); err != nil {
		t.Fatalf("set status as regular user: %v", err)
	}

	// 5. Edit resubmits and replaces media
	updateReq := map[string]interface{}{
		"title":   "Lijiang, revisited",
		"content": "now with fewer photos",
		"media": []map[string]interface{}{
			{"kind": "image", "url": "/uploads/c.jpg"},
		},
	}
	updated, err := doJSON(client, http.MethodPut, baseURL+"/notes/"+noteID, updateReq, authHeaders, http.StatusOK)
	if err != nil {
		t.Fatalf("update note failed: %v", err)
	}
	if got, _ := updated["media"].([]interface{}); len(got) != 1 {
		t.Fatalf("media after edit = %d rows, want 1", len(got))
	}

	// 6. Soft delete is idempotent
	for i := 0; i < 2; i++ {
		if _, err := doJSON(client, http.MethodDelete, baseURL+"/notes/"+noteID, nil, authHeaders, http.StatusOK); err != nil {
			t.Fatalf("delete note (attempt %d): %v", i+1, err)
		}
	}
	if _, err := doJSON(client, http.MethodGet, baseURL+"/notes/"+noteID, nil, authHeaders, http.StatusNotFound); err != nil {
		t.Fatalf("deleted note still visible to owner: %v", err)
	}
}

func postJSON(client *http.Client, url string, body interface{}, headers map[string]string, expectedStatus int) (map[string]interface{}, error) {
	return doJSON(client, http.MethodPost, url, body, headers, expectedStatus)
}

func doJSON(client *http.Client, method, url string, body interface{}, headers map[string]string, expectedStatus int) (map[string]interface{}, error) {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != expectedStatus {
		return nil, fmt.Errorf("unexpected status %d (want %d)", resp.StatusCode, expectedStatus)
	}
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}
