package user

// User is the users table row. Timestamps are unix seconds.
type User struct {
	ID           int64  `gorm:"primaryKey" db:"id"`
	Username     string `gorm:"column:username;not null" db:"username"`
	Email        string `gorm:"column:email;not null" db:"email"`
	Firstname    string `gorm:"column:firstname;not null" db:"firstname"`
	Lastname     string `gorm:"column:lastname" db:"lastname"`
	Password     string `gorm:"column:password;not null" db:"password"`
	StartDate    int64  `gorm:"column:startdate" db:"startdate"`
	TimeModified int64  `gorm:"column:timemodified" db:"timemodified"`
	ModifiedBy   *int64 `gorm:"column:modifiedby" db:"modifiedby"`
	Deleted      bool   `gorm:"column:deleted;not null" db:"deleted"`
}

func (User) TableName() string {
	return "users"
}
