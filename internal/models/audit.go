package models

import "time"

// UserLog is the append-only audit trail row written after every successful
// mutation. Logging is best effort and never fails the originating request.
type UserLog struct {
	LogID     int64     `json:"logid" gorm:"column:logid;primaryKey;autoIncrement"`
	UserID    int64     `json:"userid" gorm:"column:userid;index"`
	CompID    int64     `json:"compid" gorm:"column:compid;index"`
	Activity  string    `json:"activity" gorm:"column:activity;size:500"`
	IsWeb     bool      `json:"isweb" gorm:"column:isweb"`
	CreatedAt time.Time `json:"createdat" gorm:"column:createdat"`
}

func (UserLog) TableName() string { return "user_logs" }
