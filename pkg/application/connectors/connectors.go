package connectors

import (
	"errors"

	"mystic_market/pkg/contextx"
)

var errNotConnected = errors.New("not connected")

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
