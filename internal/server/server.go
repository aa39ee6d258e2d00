package server

import (
	"net/http"

	"github.com/MKhiriev/go-sf-harness/internal/logger"
)

// NewStatusServer creates a server for handler bound to addr. Use ":0" to
// pick a free port.
func NewStatusServer(handler http.Handler, addr string, logger *logger.Logger) (*StatusServer, error) {
	if addr == "" {
		return nil, errNoAddress
	}
	logger.Info().Str("addr", addr).Msg("creating status server...")
	return newHTTPServer(handler, addr, logger), nil
}
