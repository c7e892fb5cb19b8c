package common

// AuthorizationHeaderName carries the bearer token on mutating requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the session token in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName is echoed on every response by the access log middleware.
const RequestIDHeaderName = "X-Request-ID"
