package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"servermap/internal/domain"
	"servermap/internal/filtermap"
	"servermap/internal/repository/sqlite"
	"servermap/internal/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	svc := service.NewViewService(repo, filtermap.New(), service.NewEventBus(), nil)
	return NewRouter(RouterConfig{
		Map:   NewMapHandler(svc, "5m", nil),
		Views: NewViewHandler(svc, nil),
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const apiFilter = `{"fromApplication":"frontend","fromServiceType":"TOMCAT","toApplication":"api","toServiceType":"TOMCAT"}`

func TestBuildURL(t *testing.T) {
	h := newTestRouter(t)

	t.Run("composes address", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/filtered-map/url", `{
			"mainApplication":"frontend","mainServiceTypeName":"TOMCAT",
			"navigation":{"period":"1h","endDateTime":"2024-05-01-10-00-00"},
			"filter":`+apiFilter+`}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decode[urlResponse](t, rec)
		assert.Equal(t,
			"#/filteredMap/frontend@TOMCAT/1h/2024-05-01-10-00-00/"+filtermap.EncodeURIComponent("["+apiFilter+"]"),
			resp.URL)
	})

	t.Run("defaults period and adds hint", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/filtered-map/url", `{
			"mainApplication":"frontend","mainServiceTypeName":"TOMCAT",
			"filter":`+apiFilter+`,
			"hint":{"api":[{"rpc":"http://api/a","rpcServiceTypeCode":9050}]}}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decode[urlResponse](t, rec)
		assert.True(t, strings.HasPrefix(resp.URL, "#/filteredMap/frontend@TOMCAT/5m//"), resp.URL)
		assert.True(t, strings.HasSuffix(resp.URL,
			"/"+filtermap.EncodeURIComponent(`{"api":["http://api/a",9050]}`)), resp.URL)
	})

	t.Run("rejects body failing schema", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/filtered-map/url", `{"filter":`+apiFilter+`}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decode[ErrorResponse](t, rec).Error)
	})
}

func TestParseAddress(t *testing.T) {
	h := newTestRouter(t)

	address := "#/filteredMap/frontend@TOMCAT/5m/e/" + filtermap.EncodeURIComponent("["+apiFilter+"]")
	rec := do(t, h, http.MethodPost, "/api/filtered-map/parse", `{"address":"`+address+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var parsed struct {
		MainApplication string          `json:"mainApplication"`
		Filters         []domain.Filter `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	assert.Equal(t, "frontend", parsed.MainApplication)
	require.Len(t, parsed.Filters, 1)
	assert.Equal(t, "api", parsed.Filters[0].ToApplication)

	rec = do(t, h, http.MethodPost, "/api/filtered-map/parse", `{"address":"#/main/frontend@TOMCAT"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHasUnknownNode(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/filtered-map/unknown", `[{"tst":"TOMCAT"},{"tst":"UNKNOWN"}]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[unknownResponse](t, rec).Unknown)

	rec = do(t, h, http.MethodPost, "/api/filtered-map/unknown", `[]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[unknownResponse](t, rec).Unknown)
}

func TestBucketStart(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/buckets/start",
		`{"label":"3s","values":[{"label":"1s"},{"label":"3s"},{"label":"5s"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[bucketResponse](t, rec).Start)
}

func TestViewLifecycle(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/views",
		`{"name":"checkout","mainApplication":"frontend","mainServiceTypeName":"TOMCAT","period":"5m","endDateTime":"e"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	view := decode[domain.View](t, rec)
	require.NotEmpty(t, view.ID)

	rec = do(t, h, http.MethodPost, "/api/views/"+view.ID+"/filters", `{"filter":`+apiFilter+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	applied := decode[struct {
		URL  string      `json:"url"`
		View domain.View `json:"view"`
	}](t, rec)
	assert.Equal(t, "#/filteredMap/frontend@TOMCAT/5m/e/"+filtermap.EncodeURIComponent("["+apiFilter+"]"), applied.URL)
	assert.Equal(t, "["+apiFilter+"]", applied.View.Filters)

	rec = do(t, h, http.MethodGet, "/api/views/"+view.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "["+apiFilter+"]", decode[domain.View](t, rec).Filters)

	rec = do(t, h, http.MethodGet, "/api/views", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.View](t, rec), 1)

	rec = do(t, h, http.MethodDelete, "/api/views/"+view.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/views/"+view.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/views/"+view.ID+"/filters", `{"filter":`+apiFilter+`}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateViewFromAddress(t *testing.T) {
	h := newTestRouter(t)

	address := "#/filteredMap/frontend@TOMCAT/5m/e/" + filtermap.EncodeURIComponent("["+apiFilter+"]")
	rec := do(t, h, http.MethodPost, "/api/views", `{"name":"shared","address":"`+address+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	view := decode[domain.View](t, rec)
	assert.Equal(t, "frontend", view.MainApplication)
	assert.Equal(t, "["+apiFilter+"]", view.Filters)

	rec = do(t, h, http.MethodPost, "/api/views", `{"name":"broken","address":"#/filteredMap/frontend"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/views", `{"name":"no center"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportExport(t *testing.T) {
	h := newTestRouter(t)

	doc := "version: 1\nviews:\n  - id: v1\n    name: imported\n    main_application: frontend\n    main_service_type: TOMCAT\n    period: 5m\n    end_date_time: e\n"
	rec := do(t, h, http.MethodPost, "/api/import/yaml", doc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[importResponse](t, rec).Imported)

	rec = do(t, h, http.MethodGet, "/api/export/json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	set := decode[domain.ViewSet](t, rec)
	require.Len(t, set.Views, 1)
	assert.Equal(t, "v1", set.Views[0].ID)

	rec = do(t, h, http.MethodGet, "/api/export/ansible-inventory", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/import/json", `{"views":[{"name":"no app"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMiddleware(t *testing.T) {
	t.Run("recover", func(t *testing.T) {
		h := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		h := newTestRouter(t)
		rec := do(t, h, http.MethodOptions, "/api/views", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
