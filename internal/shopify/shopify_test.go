package shopify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/shopify"
)

func newClient(t *testing.T, h http.HandlerFunc) (*shopify.Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := shopify.New(config.Shopify{
		BaseURL:         srv.URL,
		APIVersion:      "2024-10",
		StorefrontToken: "sf-token",
		AdminToken:      "admin-token",
	})
	require.NoError(t, err)

	return c, srv
}

func TestNewWithoutShop(t *testing.T) {
	_, err := shopify.New(config.Shopify{})
	require.ErrorIs(t, err, shopify.ErrNoShop)
}

func TestStorefrontQuery(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/2024-10/graphql.json", r.URL.Path)
		assert.Equal(t, "sf-token", r.Header.Get("X-Shopify-Storefront-Access-Token"))
		assert.Empty(t, r.Header.Get("X-Shopify-Access-Token"))

		var req shopify.Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "{ shop { name } }", req.Query)
		assert.NotNil(t, req.Variables)

		_, _ = w.Write([]byte(`{"data":{"shop":{"name":"Acme"}}}`))
	})

	raw, err := c.StorefrontQuery(context.Background(), "{ shop { name } }", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"shop":{"name":"Acme"}}}`, string(raw))
}

func TestStorefrontQueryUpstreamError(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	})

	_, err := c.StorefrontQuery(context.Background(), "{ shop { name } }", map[string]any{"a": 1})
	require.ErrorIs(t, err, shopify.ErrUpstream)
	assert.Contains(t, err.Error(), "502")
}

func TestCollections(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-10/graphql.json", r.URL.Path)
		assert.Equal(t, "admin-token", r.Header.Get("X-Shopify-Access-Token"))

		_, _ = w.Write([]byte(`{"data":{"collections":{"edges":[
			{"node":{"id":"gid://shopify/Collection/1","title":"Shoes"}},
			{"node":{"id":"gid://shopify/Collection/2","title":"Hats"}}]}}}`))
	})

	got, err := c.Collections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []shopify.Collection{
		{ID: "gid://shopify/Collection/1", Title: "Shoes"},
		{ID: "gid://shopify/Collection/2", Title: "Hats"},
	}, got)
}

func TestCollectionsGraphQLError(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Access denied"}]}`))
	})

	_, err := c.Collections(context.Background())
	require.ErrorIs(t, err, shopify.ErrUpstream)
	assert.Contains(t, err.Error(), "Access denied")
}

func TestUpload(t *testing.T) {
	var uploaded string

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/admin/api/2024-10/graphql.json", func(w http.ResponseWriter, r *http.Request) {
		var req shopify.Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "stagedUploadsCreate")

		_, _ = w.Write([]byte(`{"data":{"stagedUploadsCreate":{"stagedTargets":[{
			"url":"` + srv.URL + `/staged",
			"resourceUrl":"https://cdn.test/banner.png",
			"parameters":[{"name":"key","value":"tmp/banner.png"}]}],"userErrors":[]}}}`))
	})
	mux.HandleFunc("/staged", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-Shopify-Access-Token"))
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "tmp/banner.png", r.FormValue("key"))

		f, _, err := r.FormFile("file")
		if assert.NoError(t, err) {
			b, _ := io.ReadAll(f)
			uploaded = string(b)
		}

		w.WriteHeader(http.StatusNoContent)
	})

	c, err := shopify.New(config.Shopify{BaseURL: srv.URL, AdminToken: "admin-token"})
	require.NoError(t, err)

	url, err := c.Upload(context.Background(), "banner.png", "image/png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/banner.png", url)
	assert.Equal(t, "PNGDATA", uploaded)
}

func TestUploadUserErrors(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"stagedUploadsCreate":{"stagedTargets":[],
			"userErrors":[{"field":["input"],"message":"Invalid mime type"}]}}}`))
	})

	_, err := c.Upload(context.Background(), "banner.exe", "application/x-msdownload", strings.NewReader("x"))
	require.ErrorIs(t, err, shopify.ErrUserErrors)
	assert.Contains(t, err.Error(), "Invalid mime type")
}
