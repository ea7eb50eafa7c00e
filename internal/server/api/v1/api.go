package v1

import (
	"errors"
	"net/http"

	"ecoip/internal/geoip"
	"ecoip/internal/lookup"
	"ecoip/internal/observable"
	"ecoip/internal/server/api/response"
	"ecoip/internal/status"
	"ecoip/internal/view"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Source publishes the lookup status and can re-run the lookup
type Source interface {
	Status() *observable.Value[status.Status]
	Refresh() error
}

// StatusData is the JSON form of the current status. The failure reason is
// deliberately absent. Value is set for the ready branch only, even when the
// resolved value is empty.
type StatusData struct {
	Branch  status.Branch `json:"branch"`
	Value   *string       `json:"value,omitempty"`
	Message string        `json:"message,omitempty"`
	Geo     *geoip.Info   `json:"geo,omitempty"`
}

// API represents the v1 API
type API struct {
	source   Source
	renderer *view.Renderer
	geo      *geoip.Resolver
	refresh  bool
	logger   *zap.Logger
}

// NewAPI creates new API. geo may be nil.
func NewAPI(source Source, renderer *view.Renderer, geo *geoip.Resolver, refresh bool, logger *zap.Logger) *API {
	return &API{
		source:   source,
		renderer: renderer,
		geo:      geo,
		refresh:  refresh,
		logger:   logger,
	}
}

// RegisterRoutes registers API routes
func (api *API) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/status", api.getStatus)
	if api.refresh {
		r.POST("/refresh", api.postRefresh)
	}
}

// getStatus returns the current lookup status
func (api *API) getStatus(c *gin.Context) {
	response.New(c, api.logger).Success(api.statusData(api.source.Status().Get()))
}

// postRefresh starts a new lookup
func (api *API) postRefresh(c *gin.Context) {
	resp := response.New(c, api.logger)

	if err := api.source.Refresh(); err != nil {
		if errors.Is(err, lookup.ErrLookupInProgress) {
			resp.Conflict(err)
			return
		}
		api.logger.Error("Failed to refresh lookup", zap.Error(err))
		resp.Error(http.StatusServiceUnavailable, errors.New("lookup unavailable"))
		return
	}

	resp.Accepted(api.statusData(api.source.Status().Get()))
}

func (api *API) statusData(st status.Status) StatusData {
	out := api.renderer.Section(st)
	data := StatusData{Branch: out.Branch}

	if value, ok := st.Value(); ok {
		data.Value = &value
		if info, err := api.geo.Lookup(value); err != nil {
			api.logger.Debug("GeoIP lookup failed", zap.String("ip", value), zap.Error(err))
		} else {
			data.Geo = info
		}
		return data
	}

	data.Message = out.Text
	return data
}
