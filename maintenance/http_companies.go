package maintenance

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	"github.com/coderhythm/garden-admin/auth"
)

// RegisterCompanyRoutes mounts the maintenance company endpoints. Reads
// are open to any authenticated caller; the access policy gates writes.
func RegisterCompanyRoutes[T any](app router.Router[T], opts ...CompanyControllerOption) {
	controller := NewCompanyController(opts...)

	app.Get("/maintenance-companies", controller.List).SetName("companies.list")
	app.Get("/maintenance-companies/search", controller.Search).SetName("companies.search")
	app.Get("/maintenance-companies/:id", controller.Show).SetName("companies.show")
	app.Post("/maintenance-companies", controller.Create).SetName("companies.create")
	app.Put("/maintenance-companies/:id", controller.Update).SetName("companies.update")
	app.Delete("/maintenance-companies/:id", controller.Delete).SetName("companies.delete")
}

type CompanyController struct {
	Logger auth.Logger
	Repo   Companies
}

type CompanyControllerOption func(*CompanyController) *CompanyController

func NewCompanyController(opts ...CompanyControllerOption) *CompanyController {
	c := &CompanyController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing Companies store in company controller...")
	}

	return c
}

// WithCompanies sets the company store backing the controller
func WithCompanies(repo Companies) CompanyControllerOption {
	return func(c *CompanyController) *CompanyController {
		c.Repo = repo
		return c
	}
}

// WithCompanyLogger sets the controller logger
func WithCompanyLogger(logger auth.Logger) CompanyControllerOption {
	return func(c *CompanyController) *CompanyController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// CompanyRequest is the create/update payload
type CompanyRequest struct {
	CompanyName   string `form:"companyName" json:"companyName"`
	CompanyType   string `form:"companyType" json:"companyType"`
	LegalPerson   string `form:"legalPerson" json:"legalPerson"`
	ContactPerson string `form:"contactPerson" json:"contactPerson"`
	ContactPhone  string `form:"contactPhone" json:"contactPhone"`
	Address       string `form:"address" json:"address"`
}

// Validate will validate the payload
func (r CompanyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CompanyName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.CompanyType, validation.Length(0, 50)),
		validation.Field(&r.LegalPerson, validation.Length(0, 100)),
		validation.Field(&r.ContactPerson, validation.Length(0, 100)),
		validation.Field(&r.ContactPhone, validation.Length(0, 20)),
		validation.Field(&r.Address, validation.Length(0, 500)),
	)
}

func (r CompanyRequest) apply(company *Company) {
	company.CompanyName = r.CompanyName
	company.CompanyType = r.CompanyType
	company.LegalPerson = r.LegalPerson
	company.ContactPerson = r.ContactPerson
	company.ContactPhone = r.ContactPhone
	company.Address = r.Address
}

// List answers every company record
func (c *CompanyController) List(ctx router.Context) error {
	records, err := c.Repo.List(ctx.Context())
	if err != nil {
		c.Logger.Error("companies list error: %v", err)
		return auth.RespondError(ctx, err)
	}
	return ctx.JSON(router.StatusOK, records)
}

// Search answers companies whose name contains the companyName fragment;
// without a fragment it behaves like List
func (c *CompanyController) Search(ctx router.Context) error {
	fragment := ctx.Query("companyName", "")

	records, err := c.Repo.SearchByName(ctx.Context(), fragment)
	if err != nil {
		c.Logger.Error("companies search error: %v", err)
		return auth.RespondError(ctx, err)
	}
	return ctx.JSON(router.StatusOK, records)
}

// Show answers a single company by id
func (c *CompanyController) Show(ctx router.Context) error {
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

// Create registers a new company; the name must be unique
func (c *CompanyController) Create(ctx router.Context) error {
	payload := new(CompanyRequest)
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("company create parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: "Error: Invalid request body"})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: err.Error()})
	}

	taken, err := c.Repo.ExistsByName(ctx.Context(), payload.CompanyName)
	if err != nil {
		c.Logger.Error("company name check error: %v", err)
		return auth.RespondError(ctx, err)
	}
	if taken {
		return c.respondError(ctx, ErrCompanyNameTaken)
	}

	record := &Company{}
	payload.apply(record)

	created, err := c.Repo.Create(ctx.Context(), record)
	if err != nil {
		c.Logger.Error("company create error: %v", err)
		return auth.RespondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, created)
}

// Update edits an existing company. A changed name must not collide with
// another record; keeping the current name is always allowed.
func (c *CompanyController) Update(ctx router.Context) error {
	id, ok := recordID(ctx)
	if !ok {
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: "Error: Invalid record id"})
	}

	payload := new(CompanyRequest)
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("company update parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: "Error: Invalid request body"})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: err.Error()})
	}

	record, err := c.Repo.GetByID(ctx.Context(), id)
	if err != nil {
		return c.respondError(ctx, err)
	}

	if record.CompanyName != payload.CompanyName {
		taken, err := c.Repo.ExistsByName(ctx.Context(), payload.CompanyName)
		if err != nil {
			c.Logger.Error("company name check error: %v", err)
			return auth.RespondError(ctx, err)
		}
		if taken {
			return c.respondError(ctx, ErrCompanyNameTaken)
		}
	}

	payload.apply(record)

	updated, err := c.Repo.Update(ctx.Context(), record,
		"company_name", "company_type", "legal_person", "contact_person", "contact_phone", "address")
	if err != nil {
		return c.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

// Delete removes a company record
func (c *CompanyController) Delete(ctx router.Context) error {
	id, ok := recordID(ctx)
	if !ok {
		return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: "Error: Invalid record id"})
	}

	if err := c.Repo.Delete(ctx.Context(), id); err != nil {
		return c.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, auth.MessageResponse{Message: "Maintenance company deleted successfully!"})
}

func (c *CompanyController) respondError(ctx router.Context, err error) error {
	if !isExpectedError(err) {
		c.Logger.Error("company store error: %v", err)
	}
	return auth.RespondError(ctx, err)
}

func recordID(ctx router.Context) (int64, bool) {
	id := ctx.ParamsInt("id", 0)
	return int64(id), id > 0
}

func isExpectedError(err error) bool {
	return errors.Is(err, ErrCompanyNotFound) ||
		errors.Is(err, ErrCompanyNameTaken) ||
		errors.Is(err, ErrUnitNotFound)
}
