package maintenance

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-router"

	"github.com/coderhythm/garden-admin/auth"
)

// RegisterUnitRoutes mounts the maintenance unit endpoints
func RegisterUnitRoutes[T any](app router.Router[T], opts ...UnitControllerOption) {
	controller := NewUnitController(opts...)

	app.Get("/maintenance-units", controller.List).SetName("units.list")
	app.Get("/maintenance-units/:id", controller.Show).SetName("units.show")
	app.Post("/maintenance-units", controller.Create).SetName("units.create")
	app.Put("/maintenance-units/:id", controller.Update).SetName("units.update")
	app.Delete("/maintenance-units/:id", controller.Delete).SetName("units.delete")
}

type UnitController struct {
	Logger auth.Logger
	Repo   Units
}

type UnitControllerOption func(*UnitController) *UnitController

func NewUnitController(opts ...UnitControllerOption) *UnitController {
	c := &UnitController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing Units store in unit controller...")
	}

	return c
}

// WithUnits sets the unit store backing the controller
func WithUnits(repo Units) UnitControllerOption {
	return func(c *UnitController) *UnitController {
		c.Repo = repo
		return c
	}
}

// WithUnitLogger sets the controller logger
func WithUnitLogger(logger auth.Logger) UnitControllerOption {
	return func(c *UnitController) *UnitController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// UnitRequest is the create/update payload
type UnitRequest struct {
	UnitName         string  `form:"unitName" json:"unitName"`
	MaintenanceLevel string  `form:"maintenanceLevel" json:"maintenanceLevel"`
	TreeTypes        string  `form:"treeTypes" json:"treeTypes"`
	TreeCount        int     `form:"treeCount" json:"treeCount"`
	GreenArea        float64 `form:"greenArea" json:"greenArea"`
	PatchCount       int     `form:"patchCount" json:"patchCount"`
}

// Validate will validate the payload
func (r UnitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UnitName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.MaintenanceLevel, validation.Length(0, 50)),
		validation.Field(&r.TreeTypes, validation.Length(0, 200)),
		validation.Field(&r.TreeCount, validation.Min(0)),
		validation.Field(&r.GreenArea, validation.Min(0.0)),
		validation.Field(&r.PatchCount, validation.Min(0)),
	)
}

func (r UnitRequest) apply(unit *Unit) {
	unit.UnitName = r.UnitName
	unit.MaintenanceLevel = r.MaintenanceLevel
	unit.TreeTypes = r.TreeTypes
	unit.TreeCount = r.TreeCount
	unit.GreenArea = r.GreenArea
	unit.PatchCount = r.PatchCount
}

// List answers every unit record
func (c *UnitController) List(ctx router.Context) error {
	records, err := c.Repo.List(ctx.Context())
	if err != nil {
		c.Logger.Error("units list error: %v", err)
		return auth.RespondError(ctx, err)
	}
	return ctx.JSON(router.StatusOK, records)
}

// Show answers a single unit by id
func (c *UnitController) Show(ctx router.Context) error {
	id, ok := recordID(ctx)
	if !ok {
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: "Error: Invalid record id"})
	}

	record, err := c.Repo.GetByID(ctx.Context(), id)
	if err != nil {
		return c.respondError(ctx, err)
	}
	return ctx.JSON(router.StatusOK, record)
}

// Create registers a new unit
func (c *UnitController) Create(ctx router.Context) error {
	payload := new(UnitRequest)
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("unit create parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: "Error: Invalid request body"})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: err.Error()})
	}

	record := &Unit{}
	payload.apply(record)

	created, err := c.Repo.Create(ctx.Context(), record)
	if err != nil {
		c.Logger.Error("unit create error: %v", err)
		return auth.RespondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, created)
}

// Update edits an existing unit
func (c *UnitController) Update(ctx router.Context) error {
	id, ok := recordID(ctx)
	if !ok {
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: "Error: Invalid record id"})
	}

	payload := new(UnitRequest)
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("unit update parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: "Error: Invalid request body"})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: err.Error()})
	}

	record, err := c.Repo.GetByID(ctx.Context(), id)
	if err != nil {
		return c.respondError(ctx, err)
	}

	payload.apply(record)

	updated, err := c.Repo.Update(ctx.Context(), record,
		"unit_name", "maintenance_level", "tree_types", "tree_count", "green_area", "patch_count")
	if err != nil {
		return c.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

// Delete removes a unit record
func (c *UnitController) Delete(ctx router.Context) error {
	id, ok := recordID(ctx)
	if !ok {
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: "Error: Invalid record id"})
	}

	if err := c.Repo.Delete(ctx.Context(), id); err != nil {
		return c.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, auth.MessageResponse{Message: "Maintenance unit deleted successfully!"})
}

func (c *UnitController) respondError(ctx router.Context, err error) error {
	if !isExpectedError(err) {
		c.Logger.Error("unit store error: %v", err)
	}
	return auth.RespondError(ctx, err)
}
