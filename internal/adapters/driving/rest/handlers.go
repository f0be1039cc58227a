package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/logger"
)

// formFieldFile is the multipart field carrying the uploaded PDF.
const formFieldFile = "file"

// handleUploadPDF indexes one multipart PDF upload.
func (s *Server) handleUploadPDF(c echo.Context) error {
	file, err := uploadedFile(c)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.ports.Ingestion.IngestPDF(c.Request().Context(), file)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// handleChat answers one question.
func (s *Server) handleChat(c echo.Context) error {
	var query domain.ChatQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, messageBody(msgInvalidBody))
	}

	resp, err := s.ports.Chat.Ask(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// uploadedFile reads the multipart file field.
// A request without a readable file field, including a malformed multipart
// body, yields a nil file; the ingestion workflow reports that as
// domain.ErrNoFile once readiness has been checked. Errors raised by the
// middleware chain, such as the body limit, are returned unchanged.
func uploadedFile(c echo.Context) (*domain.UploadedFile, error) {
	header, err := c.FormFile(formFieldFile)
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return nil, httpErr
		}
		logger.Debug("no usable upload in %s %s: %v", c.Request().Method, c.Path(), err)
		return nil, nil
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	return &domain.UploadedFile{
		Filename: header.Filename,
		MIMEType: header.Header.Get(echo.HeaderContentType),
		Data:     data,
	}, nil
}

// fail writes err as a {message} body with the matching status.
func (s *Server) fail(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request().Method, c.Path(), err)
		msg = msgInternalError
	}
	return c.JSON(status, messageBody(msg))
}

// statusFor maps a workflow error to an HTTP status.
func statusFor(err error) int {
	var procErr *domain.ProcessingError
	switch {
	case errors.Is(err, domain.ErrNotInitialized):
		return http.StatusServiceUnavailable
	case domain.IsInputError(err), errors.As(err, &procErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func messageBody(msg string) echo.Map {
	return echo.Map{"message": msg}
}
