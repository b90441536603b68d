// Package client talks to the gophchat backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): Chat,
//     Presign, Transfer and UploadInline.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) built on
//     netx, which maps transport failures to sentinel errors.
//
// # Chat replies
//
// The reply text is taken from the first recognised field of the response
// ("model_response", then "markdown"). Any other JSON shape is shown as its
// compact serialisation and a non-JSON body is shown verbatim, so the view
// never swallows an unexpected response.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrBadStatus, ErrNoGrant.
package client
