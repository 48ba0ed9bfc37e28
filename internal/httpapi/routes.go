package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gateway router. Middleware is attached by the caller.
func NewRouter(h *Handler, registry *prometheus.Registry) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/land-info/{tokenId}", h.GetLandInfo).Methods(http.MethodGet)
	api.HandleFunc("/owner/{tokenId}", h.GetOwner).Methods(http.MethodGet)
	api.HandleFunc("/total-supply", h.GetTotalSupply).Methods(http.MethodGet)
	api.HandleFunc("/parcels/{address}", h.GetParcels).Methods(http.MethodGet)
	api.HandleFunc("/registered/{tokenId}", h.GetRegistered).Methods(http.MethodGet)
	api.HandleFunc("/register", h.RegisterLand).Methods(http.MethodPost)
	api.HandleFunc("/transfer", h.TransferLand).Methods(http.MethodPost)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/info", h.Info).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)

	return r
}
