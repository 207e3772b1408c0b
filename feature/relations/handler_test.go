package relations

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, ws *workspace) *fiber.App {
	app := fiber.New()
	handler := NewHandler(ws.service, 0)
	handler.RegisterRoutes(app)
	return app
}

func TestHandleListAreas(t *testing.T) {
	app := setupTestApp(t, defaultWorkspace(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/relations", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body []Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body, 4)

	resp, err = app.Test(httptest.NewRequest("GET", "/relations?all=true", nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body, 5)
}

func TestHandleGetReport(t *testing.T) {
	app := setupTestApp(t, defaultWorkspace(t))

	tests := []struct {
		name        string
		url         string
		status      int
		contentType string
	}{
		{"Text", "/relations/gazdagret/missing-housenumbers", 200, "text/plain; charset=utf-8"},
		{"Markdown", "/relations/gazdagret/missing-streets?format=md", 200, "text/markdown; charset=utf-8"},
		{"JSON", "/relations/gazdagret/lints?format=json", 200, "application/json"},
		{"UnknownKind", "/relations/gazdagret/bogus", 400, ""},
		{"UnknownFormat", "/relations/gazdagret/missing-streets?format=xml", 400, ""},
		{"UnknownArea", "/relations/nowhere/missing-streets", 404, ""},
		{"NotAvailable", "/relations/noextracts/missing-streets", 404, ""},
		{"Disabled", "/relations/nostreets/missing-streets", 409, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.url, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status != 200 {
				var body map[string]string
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.NotEmpty(t, body["error"])
				return
			}
			assert.Equal(t, tt.contentType, resp.Header.Get(fiber.HeaderContentType))
			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestHandleGetReport_BadInput(t *testing.T) {
	t.Run("InvalidAreaDocument", func(t *testing.T) {
		files := extracts("gazdagret")
		files["data/relations.yaml"] = sharedYAML
		files["data/relation-gazdagret.yaml"] = "no-such-key: 1\n"
		app := setupTestApp(t, newWorkspace(t, files))

		resp, err := app.Test(httptest.NewRequest("GET", "/relations/gazdagret/missing-streets", nil))
		require.NoError(t, err)
		assert.Equal(t, 422, resp.StatusCode)
	})

	t.Run("MalformedExtract", func(t *testing.T) {
		files := extracts("gazdagret")
		files["data/relations.yaml"] = sharedYAML
		files["workdir/streets-gazdagret.tsv"] = "foo\tbar\n1\t2\n"
		app := setupTestApp(t, newWorkspace(t, files))

		resp, err := app.Test(httptest.NewRequest("GET", "/relations/gazdagret/missing-streets", nil))
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestHandleCacheStatus(t *testing.T) {
	app := setupTestApp(t, defaultWorkspace(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/relations/gazdagret/cache", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body []CacheEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body)
	for _, e := range body {
		assert.False(t, e.Current)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/relations/nowhere/cache", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
