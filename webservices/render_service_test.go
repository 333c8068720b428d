package webservices

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/staticmap-app/staticmap"
	"github.com/jamesrr39/staticmap-app/tilefetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderService() *RenderService {
	logger := logpkg.NewLogger(bytes.NewBuffer(nil), logpkg.LogLevelError)

	return NewRenderService(logger, tilefetch.NewNoopTileFetcher(), staticmap.DefaultURLTemplate, false)
}

func Test_RenderService_RendersPNG(t *testing.T) {
	rs := newTestRenderService()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/?width=120&height=120&zoom=4&lat=54&lon=4", nil)

	rs.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
}

func Test_RenderService_RendersFeatures(t *testing.T) {
	rs := newTestRenderService()

	query := url.Values{}
	query.Set("line", "52.5,13.4|48.9,2.3")
	query.Add("marker", "52.5,13.4")
	query.Add("circle", "48.9,2.3,5000")
	query.Add("rect", "53,52,14,13")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/?"+query.Encode(), nil)

	rs.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	_, err := png.Decode(w.Body)
	require.NoError(t, err)
}

func Test_RenderService_BadRequests(t *testing.T) {
	rs := newTestRenderService()

	for _, path := range []string{
		"/",                       // no features and no center
		"/?lat=54",                // lat without lon
		"/?lat=54&lon=abc",        // unparseable coordinate
		"/?zoom=x&lat=54&lon=4",   // unparseable zoom
		"/?line=52.5,13.4,99",     // wrong value count in a pair
		"/?rect=52,53,13,14",      // north below south
		"/?width=-5&lat=54&lon=4", // negative canvas size
	} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, path, nil)

		rs.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
	}
}
