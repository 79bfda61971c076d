package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/stepwise/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/createworkflow", Handler: ok},
		},
		Children: []routes.Group{
			{
				Prefix: "/workflows",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: ok},
					{Method: "PUT", Pattern: "/{id}/save", Handler: ok},
				},
			},
		},
	})

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"root route", "POST", "/createworkflow", http.StatusOK},
		{"child list", "GET", "/workflows", http.StatusOK},
		{"child nested pattern", "PUT", "/workflows/7/save", http.StatusOK},
		{"wrong method", "GET", "/createworkflow", http.StatusMethodNotAllowed},
		{"unregistered", "GET", "/workflows/7/save/extra", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRegisterMultipleGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux,
		routes.Group{Prefix: "/documents", Routes: []routes.Route{{Method: "GET", Pattern: "", Handler: ok}}},
		routes.Group{Prefix: "/v1", Children: []routes.Group{
			{Prefix: "/workflows", Routes: []routes.Route{{Method: "GET", Pattern: "/search", Handler: ok}}},
		}},
	)

	for _, path := range []string{"/documents", "/v1/workflows/search"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: got %d, want 200", path, rec.Code)
		}
	}
}
