// Package middleware provides HTTP middleware components.
package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/utils"
)

// SecurityHeaders adds security-related HTTP headers to responses
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderXContentTypeOptions, constants.ContentTypeOptionsNoSniff)
			w.Header().Set(constants.HeaderXFrameOptions, constants.FrameOptionsDeny)
			w.Header().Set(constants.HeaderXXSSProtection, constants.XSSProtectionModeBlock)
			w.Header().Set(constants.HeaderReferrerPolicy, constants.ReferrerPolicyStrictOrigin)
			w.Header().Set(constants.HeaderContentSecurityPolicy, constants.CSPDefaultSrc)

			next.ServeHTTP(w, r)
		})
	}
}

// NoStore marks responses as uncacheable. Used on the auth routes, whose
// bodies carry tokens and reset outcomes.
func NoStore() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderCacheControl, constants.CacheControlNoStore)
			w.Header().Set(constants.HeaderPragma, constants.PragmaNoCache)

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit throttles requests per client IP. Requests over the limit get a
// 429 in the API's error shape.
//
// Parameters:
//   - requests: how many requests one IP may make per window
//   - window: the sliding window length
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		requests = constants.DefaultAuthRateLimit
	}
	if window <= 0 {
		window = constants.DefaultAuthRateLimitWindow
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(utils.TooManyRequests),
	)
}

// RequestLogger writes one access log line per request
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				utils.LogHTTPRequest(
					chimiddleware.GetReqID(r.Context()),
					r.Method,
					r.URL.Path,
					r.RemoteAddr,
					r.UserAgent(),
					status,
					time.Since(start),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
