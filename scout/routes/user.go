package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scout/scout/config"
	"scout/scout/controllers"
	"scout/scout/middlewares"
)

// generic wrapper to reduce boilerplate
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(res)
	}
}

func UserRoutes(ctrl *controllers.UserController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Get("/me", handleJSON(func(r *http.Request) (any, int, error) {
			userIDVal := r.Context().Value(middlewares.UserIDKey)
			id, ok := userIDVal.(int)
			if !ok {
				return nil, http.StatusUnauthorized, nil
			}
			user, err := ctrl.GetUser(r.Context(), id)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			if user == nil {
				return nil, http.StatusNotFound, nil
			}
			return user, http.StatusOK, nil
		}))
	})

	return r
}
