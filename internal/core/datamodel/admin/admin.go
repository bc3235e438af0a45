package admin

type Admin struct {
	ID           int64  `gorm:"primaryKey"`
	UserID       int64  `gorm:"column:userid;not null;index"`
	Active       int    `gorm:"column:active;not null"`
	TimeModified int64  `gorm:"column:timemodified"`
	ModifiedBy   *int64 `gorm:"column:modifiedby"`
	Deleted      bool   `gorm:"column:deleted;not null"`
}

func (Admin) TableName() string {
	return "admin"
}
