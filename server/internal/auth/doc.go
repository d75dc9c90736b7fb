// Package auth checks API keys for dlc-server.
//
// A Guard is built from the configured mode, header name and key. Its
// UnaryInterceptor reads the key from gRPC metadata and its Middleware reads
// it from the HTTP request header of the same name.
//
// When mode is not "apikey" or the key is empty, every call passes through.
// A missing or wrong key yields codes.Unauthenticated on gRPC and 401 on HTTP.
package auth
