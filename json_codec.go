package charcountd

import (
	"encoding/json"
)

// Version is the JSON RPC protocol version clients are expected to send.
// The server echoes whatever version the request carried; it does not
// validate it.
var Version = "2.0"

// ----------------------------------------------------------------------------
// Request and Response
// ----------------------------------------------------------------------------

// ServerRequest represents a JSON-RPC request received by the server.
type ServerRequest struct {
	// JSON-RPC protocol.
	Version string `json:"jsonrpc"`

	// A String containing the name of the method to be invoked.
	Method string `json:"method"`

	// A Structured value to pass as arguments to the method.
	Params *json.RawMessage `json:"params"`

	// The request id. MUST be a string, number or null.
	// Our implementation will not do type checking for id.
	// It will be copied as it is.
	ID *json.RawMessage `json:"id"`
}

// ServerResponse represents a JSON-RPC response returned by the server.
//
// Field declaration order is the wire order: an error envelope serializes
// as error, id, jsonrpc and a success envelope as id, jsonrpc, result.
type ServerResponse struct {
	// An Error object if there was an error invoking the method.
	// As per spec the member will be omitted if there was no error.
	Error *Error `json:"error,omitempty"`

	// This must be the same id as the request it is responding to.
	ID *json.RawMessage `json:"id"`

	// JSON-RPC protocol, copied as is from the request.
	Version string `json:"jsonrpc"`

	// The Object that was returned by the invoked method.
	// As per spec the member will be omitted if there was an error.
	Result interface{} `json:"result,omitempty"`
}
