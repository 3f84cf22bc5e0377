package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scout/scout/controllers"
	"scout/scout/types"
)

func ToolRoutes(ctrl *controllers.ToolsController) chi.Router {
	r := chi.NewRouter()

	// GET /tools : the tool catalog, in the shape handed to the model
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ctrl.Catalog())
	})

	// POST /tools/execute : run one tool call. Failures come back as a
	// 200 with is_error set; only malformed JSON is a transport error.
	r.Post("/execute", func(w http.ResponseWriter, r *http.Request) {
		var call types.ToolCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result := ctrl.Execute(r.Context(), call)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	})

	return r
}
