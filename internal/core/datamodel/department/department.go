package department

type Department struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"column:name;not null"`
	TimeModified int64  `gorm:"column:timemodified"`
	ModifiedBy   *int64 `gorm:"column:modifiedby"`
	Deleted      bool   `gorm:"column:deleted;not null"`
}

func (Department) TableName() string {
	return "department"
}
