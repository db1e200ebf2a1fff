package maintenance

import "github.com/goliatone/go-errors"

const (
	TextCodeCompanyNotFound  = "COMPANY_NOT_FOUND"
	TextCodeCompanyNameTaken = "COMPANY_NAME_TAKEN"
	TextCodeUnitNotFound     = "UNIT_NOT_FOUND"
)

// ErrCompanyNotFound is returned when no maintenance company exists for
// the requested id.
var ErrCompanyNotFound = errors.New("Error: Maintenance company is not found.", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeCompanyNotFound)

// ErrCompanyNameTaken is the create/update conflict for a duplicate
// company name.
var ErrCompanyNameTaken = errors.New("Error: Company name already exists!", errors.CategoryConflict).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeCompanyNameTaken)

// ErrUnitNotFound is returned when no maintenance unit exists for the
// requested id.
var ErrUnitNotFound = errors.New("Error: Maintenance unit is not found.", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeUnitNotFound)
