package common

// AuthorizationHeaderName is the HTTP header that carries the bearer
// access token on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in the Authorization header.
const BearerPrefix = "Bearer "
