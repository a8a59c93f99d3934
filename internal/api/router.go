package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/J-Palomino/flow-actions-sub000/internal/handler"
	"github.com/J-Palomino/flow-actions-sub000/vault"
)

// SetupRouter sets up router with handlers
func SetupRouter(svc *vault.Service) http.Handler {
	vaultHandler := handler.NewVaultHandler(svc)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Vault endpoints
	mux.HandleFunc("POST /vaults", vaultHandler.Create)
	mux.HandleFunc("GET /vaults/{id}", vaultHandler.Status)
	mux.HandleFunc("POST /vaults/{id}/topup", vaultHandler.TopUp)
	mux.HandleFunc("POST /vaults/{id}/reveal", vaultHandler.Reveal)
	mux.HandleFunc("GET /vaults/{id}/usage", vaultHandler.Usage)
	mux.HandleFunc("POST /vaults/{id}/attestations", vaultHandler.Attest)

	return mux
}
