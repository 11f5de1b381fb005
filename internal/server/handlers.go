package server

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Sternrassler/vehicle-catalog/pkg/aggregate"
	"github.com/Sternrassler/vehicle-catalog/pkg/cache"
	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

// snapshot fetches the snapshot for a request, bypassing the cache in debug
// mode.
func (s *Server) snapshot(c fiber.Ctx) (cache.Result, bool, error) {
	debug := debugMode(c)
	res, err := s.catalog.Get(c.Context(), debug)
	return res, debug, err
}

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(Response{
		Status: statusSuccess,
		Data: fiber.Map{
			"status": "ok",
			"cache":  s.catalog.Status().State,
		},
	})
}

func (s *Server) tables(c fiber.Ctx) error {
	res, debug, err := s.snapshot(c)
	if err != nil {
		return err
	}
	return ok(c, res.Snapshot.Tables, res, debug)
}

// debugTables is the raw tables view read straight from upstream.
func (s *Server) debugTables(c fiber.Ctx) error {
	res, err := s.catalog.Get(c.Context(), true)
	if err != nil {
		return err
	}
	return ok(c, res.Snapshot.Tables, res, true)
}

func (s *Server) listVehicles(c fiber.Ctx) error {
	res, debug, err := s.snapshot(c)
	if err != nil {
		return err
	}
	inc := aggregate.ParseInclude(c.Query("include"))
	return ok(c, aggregate.ListVehicles(res.Snapshot, c.Query("location_id"), inc), res, debug)
}

func (s *Server) getVehicle(c fiber.Ctx) error {
	res, debug, err := s.snapshot(c)
	if err != nil {
		return err
	}
	v, err := aggregate.GetVehicle(res.Snapshot, c.Params("id"), aggregate.ParseInclude(c.Query("include")))
	if err != nil {
		return err
	}
	return ok(c, v, res, debug)
}

func (s *Server) getPricing(c fiber.Ctx) error {
	vehicleID := c.Query("vehicle_id")
	if vehicleID == "" {
		return catalog.InvalidInput("vehicle_id is required")
	}
	res, debug, err := s.snapshot(c)
	if err != nil {
		return err
	}
	view, err := aggregate.GetPricing(res.Snapshot, vehicleID, c.Query("location_code"))
	if err != nil {
		return err
	}
	return ok(c, view, res, debug)
}

func (s *Server) getInsurance(c fiber.Ctx) error {
	res, debug, err := s.snapshot(c)
	if err != nil {
		return err
	}
	return ok(c, aggregate.GetInsuranceOptions(res.Snapshot, c.Query("vehicle_id")), res, debug)
}

func (s *Server) getFinancing(c fiber.Ctx) error {
	q := aggregate.FinancingQuery{
		VehicleID:   c.Query("vehicle_id"),
		VariantCode: c.Query("variant_id"),
	}
	if raw := c.Query("amount"); raw != "" {
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return catalog.InvalidInput("amount must be an integer, got %q", raw)
		}
		q.Amount = &amount
	}
	if q.VehicleID == "" && q.Amount == nil {
		return catalog.InvalidInput("vehicle_id or amount is required")
	}

	res, debug, err := s.snapshot(c)
	if err != nil {
		return err
	}
	view, err := aggregate.GetFinancingOptions(res.Snapshot, q)
	if err != nil {
		return err
	}
	return ok(c, view, res, debug)
}

func (s *Server) cacheStatus(c fiber.Ctx) error {
	return c.JSON(Response{Status: statusSuccess, Data: s.catalog.Status()})
}

func (s *Server) refreshCache(c fiber.Ctx) error {
	s.logger.Info().Msg("Manual cache refresh requested")
	snap, err := s.catalog.Refresh(c.Context())
	if err != nil {
		resp := ErrorResponse{Status: statusError, Message: "Failed to refresh cache"}
		if s.config.ExposeErrors {
			resp.Error = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
	return c.JSON(RefreshResponse{
		Status:    statusSuccess,
		Message:   "Cache refreshed successfully",
		Version:   snap.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
