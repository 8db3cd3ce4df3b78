package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/htools/sitecheck/log"
	"github.com/htools/sitecheck/model"
)

const (
	// PathRoot answers with the API banner
	PathRoot = "/"
	// PathCheck runs the diagnostic for one domain
	PathCheck = "/check/{domain}"

	// Banner is the body of the root endpoint
	Banner = "HTools SiteCheck API"

	contentTypeHeader = "content-type"
	jsonContentType   = "application/json"
	textContentType   = "text/plain; charset=utf-8"

	errBadDomain = "Bad domain."
)

// Validator runs the diagnostic pipeline
type Validator interface {
	Validate(ctx context.Context, domain string) (*model.Report, error)
}

// ErrorResponse is the body of a failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// CheckEndpoint serves diagnostic reports
type CheckEndpoint struct {
	validator Validator
}

// RegisterEndpoints registers the banner and check endpoints
func RegisterEndpoints(router chi.Router, validator Validator) {
	e := &CheckEndpoint{validator: validator}

	router.Get(PathRoot, e.apiRoot)
	router.Get(PathCheck, e.apiCheck)
}

func logger() *logrus.Entry {
	return log.PrefixedLog("api")
}

func (e *CheckEndpoint) apiRoot(rw http.ResponseWriter, _ *http.Request) {
	rw.Header().Set(contentTypeHeader, textContentType)

	if _, err := rw.Write([]byte(Banner)); err != nil {
		logger().Error("can't write banner: ", err)
	}
}

// apiCheck is the http endpoint to validate a domain
// @Summary Validate domain
// @Description Runs all diagnostic checks for a Handshake domain
// @Tags check
// @Produce  json
// @Param domain path string true "domain name"
// @Success 200 {object} model.Report "all checks were evaluated"
// @Failure 400 {object} api.ErrorResponse "malformed domain"
// @Failure 500 {object} api.ErrorResponse "prerequisites could not be fetched"
// @Router /check/{domain} [get]
func (e *CheckEndpoint) apiCheck(rw http.ResponseWriter, req *http.Request) {
	domain := chi.URLParam(req, "domain")

	report, err := e.validator.Validate(req.Context(), domain)
	if err != nil {
		var inputErr *model.InputError
		if errors.As(err, &inputErr) {
			writeJSON(rw, http.StatusBadRequest, ErrorResponse{Error: errBadDomain})

			return
		}

		writeJSON(rw, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})

		return
	}

	writeJSON(rw, http.StatusOK, report)
}

func writeJSON(rw http.ResponseWriter, status int, body interface{}) {
	b, err := json.Marshal(body)
	if err != nil {
		logger().Error("can't serialize response: ", err)
		http.Error(rw, err.Error(), http.StatusInternalServerError)

		return
	}

	rw.Header().Set(contentTypeHeader, jsonContentType)
	rw.WriteHeader(status)

	if _, err := rw.Write(b); err != nil {
		logger().Error("unable to write response: ", log.EscapeInput(err.Error()))
	}
}
