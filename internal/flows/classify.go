package flows

import "github.com/hrkit/authclient/api"

// FailureKind classifies operation failures for root-level mapping onto
// sentinel errors and phase transitions.
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureValidation is a local input-shape rejection; no request was issued.
	FailureValidation
	// FailureInvalidCredentials is a backend rejection of an identifier/secret pair.
	FailureInvalidCredentials
	// FailureCredentialRejected is a backend rejection of a stored bearer credential.
	FailureCredentialRejected
	// FailureBackendRejected is any other HTTP-level rejection with a server message.
	FailureBackendRejected
	// FailureNetwork is a transport-level failure; the request may never have arrived.
	FailureNetwork
)

// genericNetworkMessage is the fallback lastError text when the backend never
// answered and there is no server-supplied message to surface.
const genericNetworkMessage = "cannot reach the server, try again"

// classifyAuthed maps an error from a bearer-authenticated request. A 401
// means the credential itself was rejected; any other HTTP answer is a
// rejection of the operation, and everything else is transport.
func classifyAuthed(err error) (FailureKind, string) {
	if apiErr, ok := api.AsError(err); ok {
		if apiErr.Unauthorized() {
			return FailureCredentialRejected, apiErr.Message
		}
		return FailureBackendRejected, apiErr.Message
	}
	return FailureNetwork, genericNetworkMessage
}

// classifyLogin maps an error from the credential exchange. Any HTTP answer
// (401 included) means the pair was rejected and the server message is shown
// verbatim; transport failures get the generic fallback.
func classifyLogin(err error) (FailureKind, string) {
	if apiErr, ok := api.AsError(err); ok {
		return FailureInvalidCredentials, apiErr.Message
	}
	return FailureNetwork, genericNetworkMessage
}
