package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/asiergaray/detour/internal/core/domain"
	"github.com/asiergaray/detour/internal/core/usecases"
	"github.com/asiergaray/detour/internal/pkg/metrics"
)

// corridorSearchRequest is the POST /v1/corridor/search body. Radius and
// limit fall back to the configured defaults when omitted.
type corridorSearchRequest struct {
	Start       string   `json:"start"`
	End         string   `json:"end"`
	RadiusKm    *float64 `json:"radius_km"`
	Limit       *int     `json:"limit"`
	Categories  []string `json:"categories"`
	ExcludedIDs []string `json:"excluded_ids"`
}

// SearchCorridorHandler finds attractions near the route between two endpoints.
func SearchCorridorHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body corridorSearchRequest
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		req := usecases.CorridorRequest{
			Start:       body.Start,
			End:         body.End,
			RadiusKm:    deps.Defaults.RadiusKm,
			Limit:       deps.Defaults.Limit,
			Categories:  body.Categories,
			ExcludedIDs: body.ExcludedIDs,
		}
		if body.RadiusKm != nil {
			req.RadiusKm = *body.RadiusKm
		}
		if body.Limit != nil {
			req.Limit = *body.Limit
		}

		result, err := deps.Corridor.Search(c.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, usecases.ErrBadInput):
				return errBadRequest(c, err.Error())
			case errors.Is(err, usecases.ErrGeocodeFailed):
				metrics.GeocodeFailures.Inc()
				return errBadRequest(c, err.Error())
			default:
				return errInternal(c, err.Error())
			}
		}

		metrics.CorridorSearches.Inc()
		metrics.CorridorCandidates.Observe(float64(result.Count))
		return c.JSON(result)
	}
}

// sequenceRequest is the POST /v1/routes/sequence body.
type sequenceRequest struct {
	AttractionIDs []string         `json:"attraction_ids"`
	Departure     *domain.GeoPoint `json:"departure"`
	Arrival       *domain.GeoPoint `json:"arrival"`
}

// SequenceRoutesHandler orders a set of attractions into a visitable sequence.
func SequenceRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body sequenceRequest
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result, err := deps.Sequences.Sequence(c.Context(), usecases.SequenceRequest{
			AttractionIDs: body.AttractionIDs,
			Departure:     body.Departure,
			Arrival:       body.Arrival,
		})
		if err != nil {
			switch {
			case errors.Is(err, usecases.ErrBadInput), errors.Is(err, usecases.ErrNoUsableCoordinates):
				return errBadRequest(c, err.Error())
			case errors.Is(err, usecases.ErrNotFound):
				return errNotFound(c, err.Error())
			case errors.Is(err, usecases.ErrUpstream):
				return errBadGateway(c, err.Error())
			default:
				return errInternal(c, err.Error())
			}
		}

		metrics.SequencesTotal.WithLabelValues(result.Source).Inc()
		return c.JSON(result)
	}
}

// ClearCacheHandler wipes all memoized sequencing results.
func ClearCacheHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		removed, err := deps.Sequences.ClearRouteCache(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		metrics.RouteCacheCleared.Add(float64(removed))
		return c.JSON(fiber.Map{
			"status":  "ok",
			"cleared": removed,
		})
	}
}

// ListAttractionsHandler returns a paginated attraction catalog.
func ListAttractionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 50
		}

		items, total, err := deps.Attractions.List(c.Context(), limit, offset)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: items, Pagination: pg})
	}
}

// GetAttractionHandler returns a single attraction by id.
func GetAttractionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		a, err := deps.Attractions.GetByID(c.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, usecases.ErrBadInput):
				return errBadRequest(c, err.Error())
			case errors.Is(err, usecases.ErrNotFound):
				return errNotFound(c, "attraction not found")
			default:
				return errInternal(c, err.Error())
			}
		}
		return c.JSON(a)
	}
}

// TopCategoriesHandler returns the most common category labels.
func TopCategoriesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		counts, err := deps.Attractions.TopCategories(c.Context(), limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "public, max-age=600")
		return c.JSON(fiber.Map{"categories": counts})
	}
}
