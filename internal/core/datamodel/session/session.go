package session

// Session is a persisted bearer token. Rows are hard-deleted on logout.
type Session struct {
	ID        int64  `gorm:"primaryKey" db:"id"`
	UserID    int64  `gorm:"column:userid;not null" db:"userid"`
	JWTToken  string `gorm:"column:jwttoken;not null;uniqueIndex" db:"jwttoken"`
	CreatedAt int64  `gorm:"column:createdat;autoCreateTime:false" db:"createdat"`
	ExpiresAt int64  `gorm:"column:expiresat;not null" db:"expiresat"`
}

func (Session) TableName() string {
	return "user_session"
}
