package common

// AuthorizationHeaderName carries the access token on inbound requests,
// formatted as "Bearer <token>".
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in AuthorizationHeaderName.
const BearerPrefix = "Bearer "
