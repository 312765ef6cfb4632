package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/voskhttp/voskhttp/internal/embedding"
	"github.com/voskhttp/voskhttp/internal/vectorstore"
)

type SearchHandler struct {
	embedder *embedding.Service
	store    vectorstore.VectorStore
}

func NewSearchHandler(embedder *embedding.Service, store vectorstore.VectorStore) *SearchHandler {
	return &SearchHandler{embedder: embedder, store: store}
}

type searchRequest struct {
	Query    string  `json:"query"`
	TopK     int     `json:"top_k,omitempty"`
	MinScore float64 `json:"min_score,omitempty"`
}

// Query runs semantic search over embedded transcript chunks.
func (h *SearchHandler) Query(w http.ResponseWriter, r *http.Request) {
	if h.embedder == nil || h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "search not configured")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query required")
		return
	}

	vec, err := h.embedder.EmbedSingle(r.Context(), req.Query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	results, err := h.store.SimilaritySearch(r.Context(), vec, vectorstore.SearchOptions{
		TopK:     req.TopK,
		MinScore: req.MinScore,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results, "count": len(results)})
}
