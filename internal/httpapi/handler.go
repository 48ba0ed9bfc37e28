// Package httpapi serves the gateway's HTTP operations. Every route follows
// the same shape: validate input, acquire the contract handle, make exactly
// one contract call, and map the outcome to the uniform envelope.
package httpapi

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/landchain-labs/registry-gateway/internal/accessor"
	"github.com/landchain-labs/registry-gateway/internal/config"
	svcerrors "github.com/landchain-labs/registry-gateway/internal/errors"
	"github.com/landchain-labs/registry-gateway/internal/logging"
	"github.com/landchain-labs/registry-gateway/internal/registry"
)

// Version is stamped at build time.
var Version = "dev"

// Handler serves the gateway routes.
type Handler struct {
	accessor *accessor.Accessor
	logger   *logging.Logger
	cfg      *config.Config
}

// NewHandler creates the route handler set.
func NewHandler(acc *accessor.Accessor, logger *logging.Logger, cfg *config.Config) *Handler {
	return &Handler{
		accessor: acc,
		logger:   logger,
		cfg:      cfg,
	}
}

// operation is one contract call plus its result mapping.
type operation func(ctx context.Context, reg *registry.Contract) (interface{}, error)

// run is the wrapper every operation route goes through: acquire the handle
// (initializing on first use), invoke the operation once, and emit exactly
// one envelope. Failures never propagate past here.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, endpoint, successMsg, failMsg string, op operation) {
	ctx := r.Context()

	reg, err := h.accessor.Acquire(ctx)
	if err != nil {
		h.fail(ctx, w, endpoint, failMsg, err)
		return
	}

	data, err := op(ctx, reg)
	if err != nil {
		h.fail(ctx, w, endpoint, failMsg, err)
		return
	}

	writeSuccess(w, data, successMsg)
}

// fail logs the single diagnostic line for a failed invocation and writes the
// error envelope.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, endpoint, message string, err error) {
	svc := svcerrors.From(err)
	h.logger.OperationFailed(ctx, endpoint, err)
	writeError(w, endpoint, message, svc)
}

// =============================================================================
// Read Operations
// =============================================================================

// GetLandInfo handles GET /api/v1/land-info/{tokenId}.
func (h *Handler) GetLandInfo(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/v1/land-info/{tokenId}"
	const failMsg = "Failed to fetch land information"

	tokenID, err := parseTokenID(mux.Vars(r)["tokenId"])
	if err != nil {
		h.fail(r.Context(), w, endpoint, failMsg, err)
		return
	}

	h.run(w, r, endpoint, "Land information retrieved successfully", failMsg,
		func(ctx context.Context, reg *registry.Contract) (interface{}, error) {
			info, err := reg.LandInfo(ctx, tokenID)
			if err != nil {
				return nil, err
			}
			return LandInfoData{
				TokenID:     tokenID.String(),
				BlockInfo:   info.BlockInfo,
				ParcelInfo:  info.ParcelInfo,
				TotalSupply: info.TotalSupply.String(),
			}, nil
		})
}

// GetOwner handles GET /api/v1/owner/{tokenId}.
func (h *Handler) GetOwner(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/v1/owner/{tokenId}"
	const failMsg = "Failed to fetch parcel owner"

	tokenID, err := parseTokenID(mux.Vars(r)["tokenId"])
	if err != nil {
		h.fail(r.Context(), w, endpoint, failMsg, err)
		return
	}

	h.run(w, r, endpoint, "Parcel owner retrieved successfully", failMsg,
		func(ctx context.Context, reg *registry.Contract) (interface{}, error) {
			owner, err := reg.OwnerOf(ctx, tokenID)
			if err != nil {
				return nil, err
			}
			return OwnerData{TokenID: tokenID.String(), Owner: owner}, nil
		})
}

// GetTotalSupply handles GET /api/v1/total-supply.
func (h *Handler) GetTotalSupply(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/v1/total-supply"

	h.run(w, r, endpoint, "Total supply retrieved successfully", "Failed to fetch total supply",
		func(ctx context.Context, reg *registry.Contract) (interface{}, error) {
			supply, err := reg.TotalSupply(ctx)
			if err != nil {
				return nil, err
			}
			return TotalSupplyData{TotalSupply: supply.String()}, nil
		})
}

// GetParcels handles GET /api/v1/parcels/{address}.
func (h *Handler) GetParcels(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/v1/parcels/{address}"
	const failMsg = "Failed to fetch parcels"

	addr := mux.Vars(r)["address"]
	if err := validateAddress(addr); err != nil {
		h.fail(r.Context(), w, endpoint, failMsg, err)
		return
	}

	h.run(w, r, endpoint, "Parcels retrieved successfully", failMsg,
		func(ctx context.Context, reg *registry.Contract) (interface{}, error) {
			tokens, err := reg.ParcelsOf(ctx, addr)
			if err != nil {
				return nil, err
			}
			ids := make([]string, 0, len(tokens))
			for _, token := range tokens {
				ids = append(ids, token.String())
			}
			return ParcelsData{Address: addr, TokenIDs: ids, Count: len(ids)}, nil
		})
}

// GetRegistered handles GET /api/v1/registered/{tokenId}.
func (h *Handler) GetRegistered(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/v1/registered/{tokenId}"
	const failMsg = "Failed to check registration"

	tokenID, err := parseTokenID(mux.Vars(r)["tokenId"])
	if err != nil {
		h.fail(r.Context(), w, endpoint, failMsg, err)
		return
	}

	h.run(w, r, endpoint, "Registration status retrieved successfully", failMsg,
		func(ctx context.Context, reg *registry.Contract) (interface{}, error) {
			registered, err := reg.IsRegistered(ctx, tokenID)
			if err != nil {
				return nil, err
			}
			return RegisteredData{TokenID: tokenID.String(), Registered: registered}, nil
		})
}

// =============================================================================
// Write Operations
// =============================================================================

type registerRequest struct {
	BlockInfo  string `json:"blockInfo"`
	ParcelInfo string `json:"parcelInfo"`
	Owner      string `json:"owner"`
}

// RegisterLand handles POST /api/v1/register.
func (h *Handler) RegisterLand(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/v1/register"
	const failMsg = "Failed to register land"

	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(r.Context(), w, endpoint, failMsg, err)
		return
	}
	if req.BlockInfo == "" || req.ParcelInfo == "" {
		h.fail(r.Context(), w, endpoint, failMsg, svcerrors.Validation("blockInfo and parcelInfo are required"))
		return
	}
	if err := validateAddress(req.Owner); err != nil {
		h.fail(r.Context(), w, endpoint, failMsg, err)
		return
	}

	h.run(w, r, endpoint, "Land registered successfully", failMsg,
		func(ctx context.Context, reg *registry.Contract) (interface{}, error) {
			tx, err := reg.RegisterLand(ctx, req.BlockInfo, req.ParcelInfo, req.Owner)
			if err != nil {
				return nil, err
			}
			return TransactionData{TxHash: tx}, nil
		})
}

type transferRequest struct {
	TokenID string `json:"tokenId"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// TransferLand handles POST /api/v1/transfer.
func (h *Handler) TransferLand(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/v1/transfer"
	const failMsg = "Failed to transfer land"

	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(r.Context(), w, endpoint, failMsg, err)
		return
	}
	tokenID, err := parseTokenID(req.TokenID)
	if err != nil {
		h.fail(r.Context(), w, endpoint, failMsg, err)
		return
	}
	if err := validateAddress(req.From); err != nil {
		h.fail(r.Context(), w, endpoint, failMsg, err)
		return
	}
	if err := validateAddress(req.To); err != nil {
		h.fail(r.Context(), w, endpoint, failMsg, err)
		return
	}

	h.run(w, r, endpoint, "Land transferred successfully", failMsg,
		func(ctx context.Context, reg *registry.Contract) (interface{}, error) {
			tx, err := reg.TransferLand(ctx, tokenID, req.From, req.To)
			if err != nil {
				return nil, err
			}
			return TransactionData{TxHash: tx}, nil
		})
}

// =============================================================================
// Service Routes
// =============================================================================

// Health handles GET /health. It reports process liveness only and never
// touches the contract.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{
		"status":  "healthy",
		"service": "registry-gateway",
	}, "Service is healthy")
}

// Info handles GET /info.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]interface{}{
		"service":      "registry-gateway",
		"version":      Version,
		"contract":     h.cfg.ContractHash,
		"rpcUrl":       h.cfg.RPCURL,
		"networkMagic": h.cfg.NetworkMagic,
	}, "Service information")
}

// NotFound renders unknown routes with the standard error envelope so callers
// never see a framework error page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r.URL.Path, "Endpoint not found", &svcerrors.ServiceError{
		Code:       svcerrors.CodeValidation,
		Message:    "no such endpoint",
		HTTPStatus: http.StatusNotFound,
	})
}

// =============================================================================
// Input Validation
// =============================================================================

// parseTokenID validates a caller-supplied token ID: a positive decimal
// integer of any width. Validation happens before the contract handle is
// acquired, so malformed input never reaches the network.
func parseTokenID(raw string) (*big.Int, error) {
	tokenID, ok := new(big.Int).SetString(raw, 10)
	if !ok || tokenID.Sign() <= 0 {
		return nil, svcerrors.Validation("token ID must be a positive integer")
	}
	return tokenID, nil
}

func validateAddress(addr string) error {
	if addr == "" {
		return svcerrors.Validation("address is required")
	}
	if _, err := registry.AddressToScriptHash(addr); err != nil {
		return svcerrors.Validation("invalid Neo address: " + addr)
	}
	return nil
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return svcerrors.Validation("invalid request body: " + err.Error())
	}
	return nil
}
