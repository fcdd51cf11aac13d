package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the store over HTTP. Index parameters always refer to
// positions in the snapshot the UI last rendered; an out-of-range index means
// the caller is working from a stale view and gets a hard 404.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/restore", h.restore)
	r.Delete("/{index}", h.remove)
	r.Put("/{index}", h.edit)
	r.Post("/{index}/toggle", h.toggle)
	return r
}

type taskUpsert struct {
	Text string `json:"text"`
}

func indexParam(r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, false
	}
	return i, true
}

// writeStoreErr maps store errors onto statuses. Storage failures are 503:
// the in-memory change took effect, only the write behind it needs retrying.
func writeStoreErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyText):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrOutOfRange):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNothingToRestore):
		writeErr(w, http.StatusNotFound, err.Error())
	default:
		writeErr(w, http.StatusServiceUnavailable, err.Error())
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in taskUpsert
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	t, err := h.store.Add(in.Text)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	i, ok := indexParam(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "bad index")
		return
	}
	t, err := h.store.Remove(i)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Restore()
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	i, ok := indexParam(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "bad index")
		return
	}
	t, err := h.store.ToggleCompletion(i)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	i, ok := indexParam(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "bad index")
		return
	}
	var in taskUpsert
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	t, err := h.store.EditText(i, in.Text)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats())
}
