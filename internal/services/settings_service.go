package services

import (
	"fmt"
	"strconv"

	"sparklewash/internal/models"
	"sparklewash/internal/redis"
	"sparklewash/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	defaultGSTPercentage        = 18.0
	defaultBookingBufferMinutes = 30
)

// SettingsService reads operational settings with a Redis cache in front of
// the settings table.
type SettingsService interface {
	GSTPercentage() decimal.Decimal
	BookingBufferMinutes() int
	Set(key, value, valueType, description string) error
}

type settingsService struct {
	settingRepo repository.SettingRepository
	cache       *redis.Client
}

func NewSettingsService(settingRepo repository.SettingRepository, cache *redis.Client) SettingsService {
	return &settingsService{settingRepo: settingRepo, cache: cache}
}

func (s *settingsService) GSTPercentage() decimal.Decimal {
	raw := s.lookup(models.SettingGSTPercentage)
	if raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return decimal.NewFromFloat(f)
		}
	}
	return decimal.NewFromFloat(defaultGSTPercentage)
}

func (s *settingsService) BookingBufferMinutes() int {
	raw := s.lookup(models.SettingBookingBufferMinutes)
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return defaultBookingBufferMinutes
}

func (s *settingsService) Set(key, value, valueType, description string) error {
	err := s.settingRepo.Set(&models.Setting{
		Key:         key,
		Value:       value,
		ValueType:   valueType,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	if s.cache != nil {
		s.cache.DeleteSetting(key)
	}
	return nil
}

func (s *settingsService) lookup(key string) string {
	if s.cache != nil {
		if v, ok := s.cache.GetSetting(key); ok {
			return v
		}
	}
	setting, err := s.settingRepo.Get(key)
	if err != nil {
		return ""
	}
	if s.cache != nil {
		s.cache.SetSetting(key, setting.Value)
	}
	return setting.Value
}
