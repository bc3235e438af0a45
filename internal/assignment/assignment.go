package assignment

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/frahmantamala/company-directory/internal"
	assignmentDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/assignment"
	"github.com/frahmantamala/company-directory/internal/transport"
)

type Assignment struct {
	ID                int64  `json:"id"`
	UserID            int64  `json:"userId"`
	DepartmentID      *int64 `json:"departmentId"`
	CompanyPositionID *int64 `json:"companyPositionId"`
	TimeModified      int64  `json:"timemodified"`
	ModifiedBy        *int64 `json:"modifiedBy"`
	Deleted           bool   `json:"deleted"`
}

func FromDataModel(a *assignmentDatamodel.UserCompanyPosition) *Assignment {
	return &Assignment{
		ID:                a.ID,
		UserID:            a.UserID,
		DepartmentID:      a.DepartmentID,
		CompanyPositionID: a.CompanyPositionID,
		TimeModified:      a.TimeModified,
		ModifiedBy:        a.ModifiedBy,
		Deleted:           a.Deleted,
	}
}

// Unit is a department or company position as embedded in a user's profile.
type Unit struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TimeModified int64  `json:"timemodified"`
	ModifiedBy   *int64 `json:"modifiedBy"`
	Deleted      bool   `json:"deleted"`
}

// Placement is where a user currently sits. Either side may be nil.
type Placement struct {
	Department *Unit
	Position   *Unit
}

type RefKind int

const (
	RefNone RefKind = iota
	RefByID
	RefByName
)

// Ref selects a department or company position by id, by name, or not at
// all. A name that does not exist yet is created on assignment.
type Ref struct {
	Kind RefKind
	ID   int64
	Name string
}

func None() Ref              { return Ref{Kind: RefNone} }
func ByID(id int64) Ref      { return Ref{Kind: RefByID, ID: id} }
func ByName(name string) Ref { return Ref{Kind: RefByName, Name: name} }

func (r Ref) IsNone() bool { return r.Kind == RefNone }

func (r Ref) String() string {
	switch r.Kind {
	case RefByID:
		return "id:" + strconv.FormatInt(r.ID, 10)
	case RefByName:
		return "name:" + r.Name
	}
	return "none"
}

// ParseRef reads a request value. JSON numbers select by id, strings by
// name, and empty or missing values select nothing.
func ParseRef(v interface{}) Ref {
	switch value := v.(type) {
	case nil:
		return None()
	case json.Number, float64, int, int64:
		if id, ok := transport.ToInt64(value); ok && id > 0 {
			return ByID(id)
		}
		return None()
	case string:
		name := strings.TrimSpace(value)
		if name == "" {
			return None()
		}
		return ByName(name)
	}
	return None()
}

var (
	ErrUserIDRequired       = internal.NewValidationError("The userId is required", internal.ErrCodeRequiredField)
	ErrAssignmentIDRequired = internal.NewValidationError("The assignmentId is required", internal.ErrCodeRequiredField)
	ErrAssignFieldsRequired = internal.NewValidationError("userId, departmentId and companyPositionId are required", internal.ErrCodeRequiredField)
)

func actor(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
