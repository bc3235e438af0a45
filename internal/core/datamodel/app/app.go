package app

type App struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"column:name;not null"`
	URL          string `gorm:"column:url;not null"`
	Active       int    `gorm:"column:active;not null"`
	TimeModified int64  `gorm:"column:timemodified"`
	ModifiedBy   *int64 `gorm:"column:modifiedby"`
	Deleted      bool   `gorm:"column:deleted;not null"`
}

func (App) TableName() string {
	return "app"
}
