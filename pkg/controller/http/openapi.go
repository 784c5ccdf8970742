package http

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed openapi.yaml
var openapiDocument []byte

type apiSpec struct {
	doc    *openapi3.T
	router routers.Router
}

func loadAPISpec(ctx context.Context) (*apiSpec, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openapiDocument)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse OpenAPI document")
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, goerr.Wrap(err, "invalid OpenAPI document")
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build OpenAPI router")
	}

	return &apiSpec{doc: doc, router: router}, nil
}

// ValidationMiddleware rejects requests that do not match the OpenAPI document.
// Requests to undocumented routes pass through unchanged.
func (s *apiSpec) ValidationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := s.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			ctxlog.From(r.Context()).Warn("Request does not match API schema", "error", err)
			writeError(w, r, http.StatusBadRequest, "invalid request: "+err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ServeDocument writes the embedded OpenAPI document
func (s *apiSpec) ServeDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapiDocument)
}
