package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error codes returned in ErrorResponse.Code. Each maps one typed failure so
// the caller can tell whether funds moved, a credential exists, or signing
// must be re-attempted.
const (
	CodeMalformedInput        = "MALFORMED_INPUT"
	CodeDecryptionFailed      = "DECRYPTION_FAILED"
	CodeSignatureDeclined     = "SIGNATURE_DECLINED"
	CodeAwaitTimeout          = "AWAIT_TIMEOUT"
	CodeIdentifierMissing     = "IDENTIFIER_EXTRACTION_FAILED"
	CodePartialSuccess        = "PARTIAL_SUCCESS"
	CodeAttestationOutOfOrder = "ATTESTATION_OUT_OF_ORDER"
	CodeGatewayUnavailable    = "GATEWAY_UNAVAILABLE"
	CodeInternal              = "INTERNAL"
)
