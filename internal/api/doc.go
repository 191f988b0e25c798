// Package api implements the HTTP clients for the remote classification,
// results listing and reporting endpoints.
//
// Each endpoint answers with plain HTTP status semantics. The classification
// endpoint uses a non-2xx status to say the image is not a lung radiograph,
// which is reported as a RejectionError rather than a transport failure. All
// other failures wrap common.ErrTransport. The client never retries on its own.
package api
