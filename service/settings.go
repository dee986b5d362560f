package service

import (
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/model"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// GetSetting reads one settings row. A missing key returns ("", false, nil).
func (s *PipelineService) GetSetting(key string) (string, bool, error) {
	var setting model.Setting
	res := s.DB.Where("key = ?", key).First(&setting)
	if res.RowsAffected == 0 {
		return "", false, nil
	}
	if res.Error != nil {
		return "", false, errors.Wrapf(res.Error, "read setting %s", key)
	}
	return setting.Value, true, nil
}

// SetSetting upserts one settings row.
func (s *PipelineService) SetSetting(key, value string) error {
	err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}).Error
	return errors.Wrapf(err, "write setting %s", key)
}
