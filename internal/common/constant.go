package common

// AuthorizationHeaderName is the HTTP header (and gRPC metadata key, lower-cased)
// carrying the access token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the access token in the authorization header.
const BearerScheme = "Bearer"

// RequestIDHeaderName is echoed back on every HTTP response.
const RequestIDHeaderName = "X-Request-Id"
