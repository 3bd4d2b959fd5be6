package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/status"

	"github.com/milad/dwreader/internal/domain"
)

// handleMeasurements serves GET /api/measurements/:category/:aggregation.
func (s *Server) handleMeasurements(c *gin.Context) {
	serveQuery(s, c, parseMeasurementQuery, s.reader.GetMeasurements)
}

func (s *Server) handleAgreements(c *gin.Context) {
	serveQuery(s, c, parseAgreementParameters, s.reader.GetAgreements)
}

func (s *Server) handleCustomers(c *gin.Context) {
	serveQuery(s, c, parseCustomerParameters, s.reader.GetCustomers)
}

func (s *Server) handleInvoices(c *gin.Context) {
	serveQuery(s, c, parseInvoiceParameters, s.reader.GetInvoices)
}

// serveQuery parses the request, calls the reader within the request timeout
// and writes the JSON result or the mapped error.
func serveQuery[P, R any](
	s *Server,
	c *gin.Context,
	parse func(*gin.Context) (P, error),
	call func(context.Context, P) (R, error),
) {
	params, err := parse(c)
	if err != nil {
		writeAPIError(c, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()
	resp, err := call(ctx, params)
	if err != nil {
		s.writeReaderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (s *Server) handleNotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api") {
		writeAPIError(c, http.StatusNotFound, "not_found", "not found")
		return
	}
	c.String(http.StatusNotFound, "not found")
}

func (s *Server) handleMethodNotAllowed(c *gin.Context) {
	writeAPIError(c, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}

// writeReaderError maps reader failures onto the API error envelope. Errors
// carrying a gRPC status came from the upstream service.
func (s *Server) writeReaderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidParameters):
		writeAPIError(c, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	case errors.Is(err, domain.ErrNotImplemented):
		writeAPIError(c, http.StatusNotImplemented, "not_implemented", err.Error())
		return
	case errors.Is(err, context.DeadlineExceeded):
		writeAPIError(c, http.StatusGatewayTimeout, "upstream_timeout", "upstream timeout")
		return
	}

	if _, ok := status.FromError(err); ok {
		s.log.Warn("upstream call failed", "path", c.FullPath(), "request_id", requestIDFrom(c), "error", err)
		writeAPIError(c, http.StatusBadGateway, "upstream_error", "upstream error")
		return
	}
	s.log.Error("reader call failed", "path", c.FullPath(), "request_id", requestIDFrom(c), "error", err)
	writeAPIError(c, http.StatusInternalServerError, "internal_error", "internal error")
}
