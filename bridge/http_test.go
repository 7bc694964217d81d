package bridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postJSON(t *testing.T, h http.Handler, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response not JSON: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, out
}

func getJSON(t *testing.T, h http.Handler, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response not JSON: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, out
}

func TestHTTP_CaptureAndExecute(t *testing.T) {
	d, _ := newTestDispatcher(t)
	h := d.HTTPHandler()

	code, out := postJSON(t, h, "/tools/get_ax_tree", `{}`)
	if code != http.StatusOK || out["success"] != true {
		t.Fatalf("capture: %d %v", code, out)
	}

	code, out = postJSON(t, h, "/tools/execute_action", `{"type":"click","handle":3}`)
	if code != http.StatusOK || out["clicked"] != true {
		t.Fatalf("execute: %d %v", code, out)
	}
}

func TestHTTP_ErrorStatuses(t *testing.T) {
	d, _ := newTestDispatcher(t)
	h := d.HTTPHandler()

	// Stale handle → 404 with the handle named.
	code, out := postJSON(t, h, "/tools/execute_action", `{"type":"click","handle":999}`)
	if code != http.StatusNotFound || out["success"] != false {
		t.Fatalf("stale handle: %d %v", code, out)
	}
	if !strings.Contains(out["error"].(string), "999") {
		t.Fatalf("error message: %v", out["error"])
	}

	// Missing parameter → 400.
	code, _ = postJSON(t, h, "/tools/execute_action", `{"type":"click"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("missing handle: %d", code)
	}

	// Unknown action type → 400.
	code, _ = postJSON(t, h, "/tools/execute_action", `{"type":"teleport"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("unknown action: %d", code)
	}

	// Unknown tool → 404.
	code, _ = postJSON(t, h, "/tools/launch_missiles", `{}`)
	if code != http.StatusNotFound {
		t.Fatalf("unknown tool: %d", code)
	}
}

func TestHTTP_PageText(t *testing.T) {
	d, _ := newTestDispatcher(t)
	h := d.HTTPHandler()

	code, out := postJSON(t, h, "/tools/get_page_text", `{"maxLength": 4}`)
	if code != http.StatusOK || out["success"] != true {
		t.Fatalf("page text: %d %v", code, out)
	}
	if out["truncated"] != true {
		t.Fatalf("truncation: %v", out)
	}
}

func TestHTTP_Inspection(t *testing.T) {
	d, _ := newTestDispatcher(t)
	h := d.HTTPHandler()

	code, out := getJSON(t, h, "/health")
	if code != http.StatusOK || out["status"] != "ok" {
		t.Fatalf("health: %d %v", code, out)
	}

	code, out = getJSON(t, h, "/tools")
	if code != http.StatusOK {
		t.Fatalf("tools: %d", code)
	}
	tools := out["tools"].([]any)
	if len(tools) != 4 || tools[0] != "execute_action" {
		t.Fatalf("tool list: %v", tools)
	}

	code, out = getJSON(t, h, "/status")
	if code != http.StatusOK {
		t.Fatalf("status: %d", code)
	}
	if _, ok := out["uptime_seconds"]; !ok {
		t.Fatalf("status fields: %v", out)
	}
}
