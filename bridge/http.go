package bridge

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/axbridge/axtree"
	"github.com/hazyhaar/axbridge/connectivity"
)

// toolOps maps HTTP tool names to router operations.
var toolOps = map[string]string{
	"get_ax_tree":         axtree.OpCapture,
	"get_ax_tree_compact": axtree.OpCaptureCompact,
	"get_page_text":       axtree.OpPageText,
	"execute_action":      axtree.OpExecute,
}

// HTTPHandler returns the HTTP front: POST /tools/{tool} plus
// inspection endpoints.
func (d *Dispatcher) HTTPHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, d.Status())
	})

	r.Get("/tools", func(w http.ResponseWriter, req *http.Request) {
		tools := make([]string, 0, len(toolOps))
		for name := range toolOps {
			tools = append(tools, name)
		}
		sort.Strings(tools)
		writeJSON(w, http.StatusOK, map[string]any{"tools": tools})
	})

	r.Post("/tools/{tool}", d.handleTool)

	return r
}

func (d *Dispatcher) handleTool(w http.ResponseWriter, req *http.Request) {
	tool := chi.URLParam(req, "tool")
	op, ok := toolOps[tool]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false, "error": "unknown tool: " + tool,
		})
		return
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "error": "read body: " + err.Error(),
		})
		return
	}

	payload, err := d.Call(req.Context(), op, "http", body)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{
			"success": false, "error": err.Error(),
		})
		return
	}

	var out map[string]any
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &out); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false, "error": "encode response: " + err.Error(),
			})
			return
		}
	}
	if out == nil {
		out = map[string]any{}
	}
	out["success"] = true
	writeJSON(w, http.StatusOK, out)
}

// statusFor maps typed core errors to HTTP status codes: caller
// mistakes are 4xx, everything else is a 500.
func statusFor(err error) int {
	var (
		notFound   *axtree.ElementNotFoundError
		unsupp     *axtree.UnsupportedElementError
		missing    *axtree.MissingParameterError
		unknown    *axtree.UnknownActionError
		unroutable *connectivity.ErrOperationNotFound
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unsupp), errors.As(err, &missing), errors.As(err, &unknown):
		return http.StatusBadRequest
	case errors.As(err, &unroutable):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
