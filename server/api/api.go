// Package api provides HTTP API endpoints for the tunacmd server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/dekarrin/tunacmd/server/middle"
	"github.com/dekarrin/tunacmd/server/result"
	"github.com/dekarrin/tunacmd/server/serr"
	"github.com/dekarrin/tunacmd/server/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"
)

// API holds parameters for endpoints needed to run and a service layer that
// will perform most of the actual logic. To use API, create one and then
// assign the result of its HTTP* methods as handlers to a router or some other
// kind of server mux.
//
// This is exclusively an API for serving external requests. For direct
// programmatic access into the backend of a tunacmd server via Go code, see
// [service.Service].
type API struct {
	// Backend is the service that the API calls to perform the requested
	// actions.
	Backend service.Service

	// UnauthDelay is the amount of time that a request will pause before
	// responding with an HTTP-403, HTTP-401, or HTTP-500 to deprioritize such
	// requests from processing and I/O.
	UnauthDelay time.Duration

	// Secret is the secret used to sign JWT tokens.
	Secret []byte

	// Log receives a line for every response. If nil, nothing is logged.
	Log *zap.Logger

	// WorldName is reported by the info endpoint.
	WorldName string
}

func (api API) logger() *zap.Logger {
	if api.Log == nil {
		return zap.NewNop()
	}
	return api.Log
}

// getIDParam gets the ID of the main entity being referenced in the URI. ok
// is false if it is missing or not a UUID.
func getIDParam(r *http.Request) (id uuid.UUID, ok bool) {
	valStr := chi.URLParam(r, "id")
	if valStr == "" {
		return id, false
	}

	id, err := uuid.Parse(valStr)
	if err != nil {
		return id, false
	}
	return id, true
}

func requestAccount(req *http.Request) dao.Account {
	return req.Context().Value(middle.AuthAccount).(dao.Account)
}

// v must be a pointer to a type. Will return error such that
// errors.Is(err, serr.ErrBodyUnmarshal) returns true if it is problem decoding
// the JSON itself.
func parseJSON(req *http.Request, v interface{}) error {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || strings.ToLower(mediaType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	err = json.Unmarshal(bodyData, v)
	if err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

type EndpointFunc func(req *http.Request) result.Result

func (api API) httpEndpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer api.panicTo500(w, req)
		r := ep(req)

		// if this hasn't been properly created, output error directly and do not
		// try to read properties
		if r.Status == 0 {
			api.logHttpResponse(zapcore.ErrorLevel, req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// pre-call PrepareMarshaledResponse bc if it fails in call to
		// WriteResponse, it will panic.
		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.Err(http.StatusInternalServerError, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
		}

		if r.IsErr {
			api.logHttpResponse(zapcore.ErrorLevel, req, r.Status, r.InternalMsg)
		} else {
			api.logHttpResponse(zapcore.InfoLevel, req, r.Status, r.InternalMsg)
		}

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			// if it's one of these statuses, either the client is improperly
			// logging in or tried to access a forbidden resource, both of which
			// should force the wait time before responding.
			time.Sleep(api.UnauthDelay)
		}

		r.WriteResponse(w)
	}
}

func (api API) panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			"panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()),
		)
		api.logHttpResponse(zapcore.ErrorLevel, req, r.Status, r.InternalMsg)
		r.WriteResponse(w)
	}
}

func (api API) logHttpResponse(level zapcore.Level, req *http.Request, respStatus int, msg string) {
	// we don't really care about the ephemeral port from the client end
	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	remoteIP := remoteAddrParts[0]

	if ce := api.logger().Check(level, msg); ce != nil {
		ce.Write(
			zap.String("remote", remoteIP),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", respStatus),
		)
	}
}
