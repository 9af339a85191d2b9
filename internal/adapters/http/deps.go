package http

import (
	"github.com/nats-io/nats.go"

	"github.com/asiergaray/detour/internal/adapters/postgres"
	"github.com/asiergaray/detour/internal/adapters/valkey"
	"github.com/asiergaray/detour/internal/core/usecases"
)

// CorridorDefaults are applied when a search request omits a field.
type CorridorDefaults struct {
	RadiusKm float64
	Limit    int
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Corridor    *usecases.CorridorService
	Sequences   *usecases.SequenceService
	Attractions *usecases.AttractionService
	Defaults    CorridorDefaults
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
}
