package vehicleController

import (
	"context"

	"recondo/internal/events"
	"recondo/internal/logger"
	. "recondo/internal/models"
	"recondo/internal/repositories"

	"github.com/google/uuid"
)

type VehicleController struct {
	vehicleRepo  repositories.VehicleRepository
	locationRepo repositories.LocationRepository
	eventBus     *events.EventBus
	log          logger.Logger
}

type VehicleControllerInterface interface {
	Get(ctx context.Context, dealershipID, vehicleID uuid.UUID) (*Vehicle, error)
	List(ctx context.Context, dealershipID uuid.UUID, filter repositories.VehicleFilter) ([]*Vehicle, error)
	Create(ctx context.Context, vehicle *Vehicle) (*Vehicle, error)
	Update(ctx context.Context, dealershipID, vehicleID uuid.UUID, req VehicleUpdateRequest) (*Vehicle, error)
	Delete(ctx context.Context, dealershipID, vehicleID uuid.UUID) (bool, error)
}

func New(
	repos repositories.Repository,
	eventBus *events.EventBus,
) VehicleControllerInterface {
	return &VehicleController{
		vehicleRepo:  repos.Vehicle,
		locationRepo: repos.Location,
		eventBus:     eventBus,
		log:          logger.New("vehicleController"),
	}
}

func (c *VehicleController) Get(
	ctx context.Context,
	dealershipID, vehicleID uuid.UUID,
) (*Vehicle, error) {
	return c.vehicleRepo.GetByID(ctx, dealershipID, vehicleID)
}

func (c *VehicleController) List(
	ctx context.Context,
	dealershipID uuid.UUID,
	filter repositories.VehicleFilter,
) ([]*Vehicle, error) {
	return c.vehicleRepo.List(ctx, dealershipID, filter)
}

func (c *VehicleController) Create(ctx context.Context, vehicle *Vehicle) (*Vehicle, error) {
	log := c.log.TraceFromContext(ctx).Function("Create")

	if vehicle.StockNumber == "" {
		return nil, log.ErrMsg("stock number is required")
	}

	if vehicle.LocationID != nil {
		location, err := c.locationRepo.GetByID(ctx, vehicle.DealershipID, *vehicle.LocationID)
		if err != nil {
			return nil, err
		}
		if location == nil {
			return nil, log.ErrMsg("location does not exist", "locationID", *vehicle.LocationID)
		}
	}

	if vehicle.Status == "" {
		vehicle.Status = VehicleStatusIntake
	}

	if err := c.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	c.publishUpdate(vehicle.DealershipID, vehicle.ID, "created")
	return vehicle, nil
}

func (c *VehicleController) Update(
	ctx context.Context,
	dealershipID, vehicleID uuid.UUID,
	req VehicleUpdateRequest,
) (*Vehicle, error) {
	log := c.log.TraceFromContext(ctx).Function("Update")

	vehicle, err := c.vehicleRepo.GetByID(ctx, dealershipID, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, nil
	}

	if req.LocationID != nil {
		location, locErr := c.locationRepo.GetByID(ctx, dealershipID, *req.LocationID)
		if locErr != nil {
			return nil, locErr
		}
		if location == nil {
			return nil, log.ErrMsg("location does not exist", "locationID", *req.LocationID)
		}
	}

	vehicle.ApplyUpdate(req)

	if err := c.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	c.publishUpdate(dealershipID, vehicleID, "updated")
	return vehicle, nil
}

func (c *VehicleController) Delete(
	ctx context.Context,
	dealershipID, vehicleID uuid.UUID,
) (bool, error) {
	deleted, err := c.vehicleRepo.Delete(ctx, dealershipID, vehicleID)
	if err != nil {
		return false, err
	}

	if deleted {
		c.publishUpdate(dealershipID, vehicleID, "deleted")
	}
	return deleted, nil
}

func (c *VehicleController) publishUpdate(dealershipID, vehicleID uuid.UUID, action string) {
	if c.eventBus == nil {
		return
	}
	err := c.eventBus.PublishDealershipUpdate(events.VEHICLE_UPDATED, dealershipID, map[string]any{
		"vehicleId": vehicleID.String(),
		"action":    action,
	})
	if err != nil {
		c.log.Function("publishUpdate").Warn("failed to publish vehicle event",
			"vehicleID", vehicleID, "error", err)
	}
}
