package chat

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/modelink/modelink/internal/chatlink/driver"
	"github.com/modelink/modelink/internal/chatlink/profile"
)

func catalogServer(t *testing.T, ids *atomic.Value) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		out := `{"data":[`
		for i, id := range ids.Load().([]string) {
			if i > 0 {
				out += ","
			}
			out += fmt.Sprintf(`{"id":%q}`, id)
		}
		out += `]}`
		w.Write([]byte(out))
	}))
}

func catalogProfile(baseURL string) profile.Profile {
	return profile.Profile{
		ID:              "test",
		BaseURL:         baseURL,
		ChatPath:        "/chat/completions",
		ModelsPath:      "/models",
		Auth:            profile.AuthBearer,
		PreferredModels: []string{"first-choice", "second-choice"},
		DefaultModel:    "configured-default",
	}
}

func TestListModels(t *testing.T) {
	var ids atomic.Value
	ids.Store([]string{"b-model", "a-model", "  ", "c-model"})
	srv := catalogServer(t, &ids)
	defer srv.Close()

	client := NewClient(catalogProfile(srv.URL), Credential{APIKey: "k"}, "auto")
	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	// Blank ids are dropped, order is the catalog's own.
	require.Equal(t, []string{"b-model", "a-model", "c-model"}, models)
}

func TestListModelsNoCatalogPath(t *testing.T) {
	prof := catalogProfile("http://unused")
	prof.ModelsPath = ""
	client := NewClient(prof, Credential{APIKey: "k"}, "auto")
	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Empty(t, models)
}

func TestSelectionConfiguredModelWins(t *testing.T) {
	// No server: a concrete configured model must never trigger a catalog call.
	client := NewClient(catalogProfile("http://unreachable.invalid"), Credential{APIKey: "k"}, "pinned-model")
	sel := client.Selection(context.Background())
	require.Equal(t, "pinned-model", sel.Model)
	require.Equal(t, driver.SelectionConfigured, sel.Reason)
}

func TestSelectionPreferredIntersection(t *testing.T) {
	var ids atomic.Value
	ids.Store([]string{"other", "second-choice", "zzz"})
	srv := catalogServer(t, &ids)
	defer srv.Close()

	client := NewClient(catalogProfile(srv.URL), Credential{APIKey: "k"}, "auto")
	sel := client.Selection(context.Background())
	require.Equal(t, "second-choice", sel.Model)
	require.Equal(t, driver.SelectionPreferred, sel.Reason)
}

func TestSelectionPreferenceOrderBeatsCatalogOrder(t *testing.T) {
	var ids atomic.Value
	ids.Store([]string{"second-choice", "first-choice"})
	srv := catalogServer(t, &ids)
	defer srv.Close()

	client := NewClient(catalogProfile(srv.URL), Credential{APIKey: "k"}, "auto")
	sel := client.Selection(context.Background())
	require.Equal(t, "first-choice", sel.Model)
}

func TestSelectionLexicographicFallback(t *testing.T) {
	var ids atomic.Value
	ids.Store([]string{"zeta", "alpha", "mid"})
	srv := catalogServer(t, &ids)
	defer srv.Close()

	client := NewClient(catalogProfile(srv.URL), Credential{APIKey: "k"}, "auto")
	sel := client.Selection(context.Background())
	require.Equal(t, "alpha", sel.Model)
	require.Equal(t, driver.SelectionCatalogFallback, sel.Reason)
}

func TestSelectionCatalogFailureFallsBackToDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(catalogProfile(srv.URL), Credential{APIKey: "k"}, "auto")
	sel := client.Selection(context.Background())
	require.Equal(t, "configured-default", sel.Model)
	require.Equal(t, driver.SelectionDefault, sel.Reason)
}

func TestSelectionWithoutCatalogPathUsesPreferenceList(t *testing.T) {
	prof := catalogProfile("http://unused")
	prof.ModelsPath = ""
	client := NewClient(prof, Credential{APIKey: "k"}, "auto")
	sel := client.Selection(context.Background())
	require.Equal(t, "first-choice", sel.Model)
	require.Equal(t, driver.SelectionPreferred, sel.Reason)
}

func TestSelectionIsMemoizedForAdapterLifetime(t *testing.T) {
	var ids atomic.Value
	ids.Store([]string{"first-choice"})
	srv := catalogServer(t, &ids)
	defer srv.Close()

	client := NewClient(catalogProfile(srv.URL), Credential{APIKey: "k"}, "auto")
	first := client.Selection(context.Background())
	require.Equal(t, "first-choice", first.Model)

	// The live catalog changes, the memoized selection must not.
	ids.Store([]string{"brand-new-model"})
	second := client.Selection(context.Background())
	require.Equal(t, first, second)
}
