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

var (
	BaseURL = os.Getenv("API_BASE_URL")
	Owner   = ownerAddress()
)

func TestMain(m *testing.M) {
	// Give a freshly started server a moment before hitting it.
	if BaseURL != "" {
		time.Sleep(2 * time.Second)
	}
	os.Exit(m.Run())
}

func ownerAddress() string {
	if v := os.Getenv("LEDGER_OWNER"); v != "" {
		return v
	}
	return "owner"
}

// requireServer skips the test unless a running API is configured.
func requireServer(t *testing.T) {
	t.Helper()
	if BaseURL == "" {
		t.Skip("API_BASE_URL not set, skipping integration test")
	}
}

// uniqueAddress returns a fresh account name so tests can rerun against the
// same database.
func uniqueAddress(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func postJSON(t *testing.T, path string, body interface{}, asOwner bool) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, BaseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if asOwner {
		req.Header.Set("X-Owner-Address", Owner)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
