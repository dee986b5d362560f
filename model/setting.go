package model

import (
	"time"
)

/*

Setting is a small key/value row used for idempotency markers (for example
"digest generated for week X") and small caches

Key: primary key
Value: opaque string payload
UpdatedAt: last write time
*/
type Setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}
