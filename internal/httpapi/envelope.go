package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	svcerrors "github.com/landchain-labs/registry-gateway/internal/errors"
)

// =============================================================================
// Response Envelopes
// =============================================================================

// SuccessResponse is the envelope every successful operation returns. A
// success envelope never carries an error key.
type SuccessResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Message   string      `json:"message"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse is the envelope every failed operation returns. An error
// envelope never carries a data key.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// ErrorBody describes one failure: a human-readable message, the underlying
// failure text verbatim in Details, and the endpoint that was being served.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
	Endpoint  string `json:"endpoint"`
}

func writeSuccess(w http.ResponseWriter, data interface{}, message string) {
	writeJSON(w, http.StatusOK, SuccessResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeError(w http.ResponseWriter, endpoint, message string, svc *svcerrors.ServiceError) {
	details := svc.Details
	if details == "" {
		details = svc.Message
	}
	writeJSON(w, svc.HTTPStatus, ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:      svc.Code,
			Message:   message,
			Details:   details,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Endpoint:  endpoint,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// =============================================================================
// Data Transfer Objects
// =============================================================================

// Big integers are rendered as decimal strings in every DTO so values wider
// than native precision survive the trip unchanged.

// LandInfoData is the response body for land-info lookups.
type LandInfoData struct {
	TokenID     string `json:"tokenId"`
	BlockInfo   string `json:"blockInfo"`
	ParcelInfo  string `json:"parcelInfo"`
	TotalSupply string `json:"totalSupply"`
}

// OwnerData is the response body for owner lookups.
type OwnerData struct {
	TokenID string `json:"tokenId"`
	Owner   string `json:"owner"`
}

// TotalSupplyData is the response body for supply lookups.
type TotalSupplyData struct {
	TotalSupply string `json:"totalSupply"`
}

// ParcelsData is the response body for per-owner parcel listings.
type ParcelsData struct {
	Address  string   `json:"address"`
	TokenIDs []string `json:"tokenIds"`
	Count    int      `json:"count"`
}

// RegisteredData is the response body for registration checks.
type RegisteredData struct {
	TokenID    string `json:"tokenId"`
	Registered bool   `json:"registered"`
}

// TransactionData is the response body for write operations.
type TransactionData struct {
	TxHash string `json:"txHash"`
}
