/*
Package server implements msgpack IPC for fuzzy path lookup services.

The server package provides a minimal interface for key-path resolution using
msgpack serialization over stdin/stdout.

# IPC

The server operates on a request response model where clients send structured
messages via stdin and receive responses through stdout. Each message contains
an ID field and other fields based on the operation type.

Lookup requests use mainly this structure:

	{"id": "req_001", "p": "persn.name", "t": 75}

The server responds with the matched path and its value:

	{"id": "req_001", "p": "persn.name", "m": "person.name", "v": "John Doe", "us": 120}

Admin messages enable runtime adjustment of the resolver:

	{"id": "adm_001", "action": "tree_info"}
	{"id": "adm_002", "action": "set_threshold", "threshold": 90}

Response structures include status information and error details when an op
fails. Errors are responses, never crashes; a malformed frame gets an error
frame back and the loop keeps reading.
*/
package server

// LookupRequest - minimal lookup request
type LookupRequest struct {
	ID        string `msgpack:"id"`
	Path      string `msgpack:"p"`
	Threshold *int   `msgpack:"t,omitempty"` // nil uses the configured default
	Exact     bool   `msgpack:"x,omitempty"` // bypass fuzzy matching entirely
}

// LookupResponse - lookup response
type LookupResponse struct {
	ID          string `msgpack:"id"`
	Path        string `msgpack:"p"`
	MatchedPath string `msgpack:"m"`
	Value       any    `msgpack:"v"`
	TimeTaken   int64  `msgpack:"us"`
}

// ErrorResponse represents an IPC error
type ErrorResponse struct {
	ID     string `msgpack:"id"`
	Error  string `msgpack:"error"`
	Status int    `msgpack:"status"`
}

// ADMIN MESSAGES - resolver settings and tree inspection

// AdminRequest - resolver management request
type AdminRequest struct {
	ID        string `msgpack:"id"`
	Action    string `msgpack:"action"`              // "tree_info", "set_threshold", "set_fuzzy", "get_config", "health"
	Threshold *int   `msgpack:"threshold,omitempty"` // for "set_threshold"
	Enabled   *bool  `msgpack:"enabled,omitempty"`   // for "set_fuzzy"
}

// TreeInfo - tree inspection payload
type TreeInfo struct {
	Paths       int    `msgpack:"paths"`
	TopKeys     int    `msgpack:"top_keys"`
	Depth       int    `msgpack:"depth"`
	Fingerprint string `msgpack:"fingerprint"`
}

// AdminResponse - resolver management response
type AdminResponse struct {
	ID        string    `msgpack:"id"`
	Status    string    `msgpack:"status"`
	Threshold int       `msgpack:"threshold,omitempty"`
	Fuzzy     bool      `msgpack:"fuzzy,omitempty"`
	Algorithm string    `msgpack:"algorithm,omitempty"`
	Info      *TreeInfo `msgpack:"info,omitempty"`
}
