// Package client contains the client side of the gophsnap Snapshot service.
//
// # Overview
//
// GRPCClient talks to the server over gRPC. Requests and responses are
// google.protobuf.Struct messages; the client converts them to the types in
// internal/client/models. After Login the access token is attached to every
// call by a unary interceptor.
//
// # Error Handling
//
// gRPC status codes are mapped to sentinel errors that callers can match
// with errors.Is: ErrUnauthorized, ErrUnavailable and ErrRejected. A rejected
// request keeps the server's message, which for validation failures is the
// validation code (e.g. "PASSWORD_WEAK").
package client
