package webservices

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/staticmap-app/staticmap"
)

// InfoService reports the renderer's defaults and capabilities.
type InfoService struct {
	logger      *logpkg.Logger
	urlTemplate string
	chi.Router
}

func NewInfoService(logger *logpkg.Logger, urlTemplate string) *InfoService {
	ws := &InfoService{logger, urlTemplate, chi.NewRouter()}
	ws.Get("/", ws.handleGet)

	return ws
}

type infoType struct {
	URLTemplate   string   `json:"urlTemplate"`
	DefaultWidth  int      `json:"defaultWidth"`
	DefaultHeight int      `json:"defaultHeight"`
	TileSize      int      `json:"tileSize"`
	MaxZoom       int      `json:"maxZoom"`
	FeatureKinds  []string `json:"featureKinds"`
}

func (ws *InfoService) handleGet(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, infoType{
		URLTemplate:   ws.urlTemplate,
		DefaultWidth:  staticmap.DefaultWidth,
		DefaultHeight: staticmap.DefaultHeight,
		TileSize:      staticmap.DefaultTileSize,
		MaxZoom:       staticmap.MaxZoom,
		FeatureKinds:  []string{"line", "circle", "marker", "rect"},
	})
}
