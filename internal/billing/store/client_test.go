package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
)

func TestClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/proyectos" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("limit") != "10" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"1","titulo":"Obra","costo_proyecto":80,"prioridad":"media","metodo_pago":"efectivo"}]`))
	}))
	defer server.Close()

	items, err := NewClient(server.URL).List(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Obra", items[0].Titulo)
	assert.Equal(t, 80.0, items[0].CostoProyecto)
}

func TestClient_CreateAssignsID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/proyectos" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var p domain.Project
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("bad create body: %v", err)
		}
		p.ID = "42"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(p)
	}))
	defer server.Close()

	created, err := NewClient(server.URL).Create(context.Background(), &domain.Project{
		Titulo:        "Redesign",
		CostoProyecto: 150.00,
		MetodoPago:    domain.MethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, "42", created.ID)
	assert.Equal(t, 150.00, created.CostoProyecto)
}

func TestClient_UpdateNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such project", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Update(context.Background(), "999", &domain.Project{Titulo: "Obra"})

	var stErr *domain.StoreError
	require.ErrorAs(t, err, &stErr)
	assert.Equal(t, domain.StoreNotFound, stErr.Kind)
	assert.Equal(t, http.StatusNotFound, stErr.Status)
}

func TestClient_RejectedOnValidationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "titulo demasiado largo", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Create(context.Background(), &domain.Project{Titulo: "Obra"})

	var stErr *domain.StoreError
	require.ErrorAs(t, err, &stErr)
	assert.Equal(t, domain.StoreRejected, stErr.Kind)
}

func TestClient_UnreachableOnNetworkError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	_, err := client.List(context.Background(), 1, 20)

	var stErr *domain.StoreError
	require.ErrorAs(t, err, &stErr)
	assert.Equal(t, domain.StoreUnreachable, stErr.Kind)
	assert.Zero(t, stErr.Status)
}

func TestClient_Delete(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	require.NoError(t, NewClient(server.URL).Delete(context.Background(), "42"))
	assert.Equal(t, "DELETE /proyectos/42", gotPath)
}
