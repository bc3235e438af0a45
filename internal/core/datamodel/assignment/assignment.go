package assignment

// UserCompanyPosition links a user to at most one department and one
// company position. Either side may be null.
type UserCompanyPosition struct {
	ID                int64  `gorm:"primaryKey"`
	UserID            int64  `gorm:"column:userid;not null;index"`
	DepartmentID      *int64 `gorm:"column:departmentid"`
	CompanyPositionID *int64 `gorm:"column:companypositionid"`
	TimeModified      int64  `gorm:"column:timemodified"`
	ModifiedBy        *int64 `gorm:"column:modifiedby"`
	Deleted           bool   `gorm:"column:deleted;not null"`
}

func (UserCompanyPosition) TableName() string {
	return "user_company_position"
}
