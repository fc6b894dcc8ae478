package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/engine"
	"github.com/noah-isme/internship-compliance-api/internal/models"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
)

type configurationRepository interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error)
	Upsert(ctx context.Context, cfg *models.Configuration) error
	BulkUpsert(ctx context.Context, cfgs []models.Configuration) error
}

type configurationAuditLogger interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

type allowedConfiguration struct {
	Key         string
	Type        models.ConfigurationType
	Description string
}

var allowedConfigurationKeys = []string{
	models.ConfigKeyMinDaysForInclusion,
	models.ConfigKeyReportDueDay,
	models.ConfigKeyVisitDueOnMonthEnd,
	models.ConfigKeyVisitDueDay,
	models.ConfigKeyMinInternshipWeeks,
	models.ConfigKeyMaxInternshipMonths,
	models.ConfigKeyMissingReportGrace,
	models.ConfigKeyTierExcellentMin,
	models.ConfigKeyTierGoodMin,
	models.ConfigKeyTierWarningMin,
	models.ConfigKeyTierCriticalMin,
}

var allowedConfigurations = map[string]allowedConfiguration{
	models.ConfigKeyMinDaysForInclusion: {
		Key:         models.ConfigKeyMinDaysForInclusion,
		Type:        models.ConfigurationTypeInt,
		Description: "Minimum active days for a boundary month to count",
	},
	models.ConfigKeyReportDueDay: {
		Key:         models.ConfigKeyReportDueDay,
		Type:        models.ConfigurationTypeInt,
		Description: "Day of the following month when the report falls due",
	},
	models.ConfigKeyVisitDueOnMonthEnd: {
		Key:         models.ConfigKeyVisitDueOnMonthEnd,
		Type:        models.ConfigurationTypeBool,
		Description: "Whether visits fall due at month end",
	},
	models.ConfigKeyVisitDueDay: {
		Key:         models.ConfigKeyVisitDueDay,
		Type:        models.ConfigurationTypeInt,
		Description: "Fixed due day for visits when not using month end",
	},
	models.ConfigKeyMinInternshipWeeks: {
		Key:         models.ConfigKeyMinInternshipWeeks,
		Type:        models.ConfigurationTypeInt,
		Description: "Minimum internship duration in weeks",
	},
	models.ConfigKeyMaxInternshipMonths: {
		Key:         models.ConfigKeyMaxInternshipMonths,
		Type:        models.ConfigurationTypeInt,
		Description: "Maximum internship duration in months",
	},
	models.ConfigKeyMissingReportGrace: {
		Key:         models.ConfigKeyMissingReportGrace,
		Type:        models.ConfigurationTypeInt,
		Description: "Grace window in days after a report falls overdue",
	},
	models.ConfigKeyTierExcellentMin: {
		Key:         models.ConfigKeyTierExcellentMin,
		Type:        models.ConfigurationTypeInt,
		Description: "Minimum score for the EXCELLENT tier",
	},
	models.ConfigKeyTierGoodMin: {
		Key:         models.ConfigKeyTierGoodMin,
		Type:        models.ConfigurationTypeInt,
		Description: "Minimum score for the GOOD tier",
	},
	models.ConfigKeyTierWarningMin: {
		Key:         models.ConfigKeyTierWarningMin,
		Type:        models.ConfigurationTypeInt,
		Description: "Minimum score for the WARNING tier",
	},
	models.ConfigKeyTierCriticalMin: {
		Key:         models.ConfigKeyTierCriticalMin,
		Type:        models.ConfigurationTypeInt,
		Description: "Minimum score for the CRITICAL tier",
	},
}

// ConfigurationServiceParams bundles constructor dependencies.
type ConfigurationServiceParams struct {
	Repo      configurationRepository
	Audit     configurationAuditLogger
	Settings  *ComplianceSettings
	Cache     *CacheService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// ConfigurationService manages the runtime-tunable compliance thresholds.
// Every change is validated as a complete config before it is stored or
// applied: out-of-range values are rejected outright, never clamped.
type ConfigurationService struct {
	repo      configurationRepository
	audit     configurationAuditLogger
	settings  *ComplianceSettings
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConfigurationService constructs a ConfigurationService.
func NewConfigurationService(params ConfigurationServiceParams) *ConfigurationService {
	if params.Validator == nil {
		params.Validator = validator.New()
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Settings == nil {
		params.Settings = NewComplianceSettings(engine.DefaultConfig())
	}
	return &ConfigurationService{
		repo:      params.Repo,
		audit:     params.Audit,
		settings:  params.Settings,
		cache:     params.Cache,
		validator: params.Validator,
		logger:    params.Logger,
	}
}

// LoadOverrides merges persisted overrides into the live settings at
// startup. Invalid stored combinations fail loudly instead of silently
// reverting to defaults.
func (s *ConfigurationService) LoadOverrides(ctx context.Context) error {
	rows, err := s.repo.ListByKeys(ctx, allowedKeys())
	if err != nil {
		return fmt.Errorf("load configuration overrides: %w", err)
	}
	cfg := s.settings.Current()
	for _, row := range rows {
		if err := applyConfigValue(&cfg, row.Key, row.Value); err != nil {
			return fmt.Errorf("apply stored configuration %s: %w", row.Key, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("stored configuration overrides are invalid: %w", err)
	}
	s.settings.Replace(cfg)
	return nil
}

// List returns every threshold with its effective value.
func (s *ConfigurationService) List(ctx context.Context) ([]dto.ConfigurationItem, error) {
	rows, err := s.repo.ListByKeys(ctx, allowedKeys())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list configurations")
	}
	overrides := make(map[string]models.Configuration, len(rows))
	for _, row := range rows {
		overrides[row.Key] = row
	}

	cfg := s.settings.Current()
	items := make([]dto.ConfigurationItem, 0, len(allowedConfigurationKeys))
	for _, key := range allowedConfigurationKeys {
		meta := allowedConfigurations[key]
		item := dto.ConfigurationItem{
			Key:         key,
			Value:       configValue(cfg, key),
			Type:        string(meta.Type),
			Description: meta.Description,
		}
		if row, ok := overrides[key]; ok {
			item.Value = row.Value
		}
		items = append(items, item)
	}
	return items, nil
}

// Update changes one threshold. The candidate config must validate as a
// whole before anything is persisted.
func (s *ConfigurationService) Update(ctx context.Context, key, value string, actor *models.JWTClaims) (*dto.ConfigurationItem, error) {
	return s.apply(ctx, []dto.UpdateConfigurationRequest{{Key: key, Value: value}}, actor)
}

// BulkUpdate changes several thresholds atomically. Tier boundaries that are
// only consistent together must be moved together through this path.
func (s *ConfigurationService) BulkUpdate(ctx context.Context, req dto.BulkUpdateConfigurationRequest, actor *models.JWTClaims) ([]dto.ConfigurationItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk payload")
	}
	if _, err := s.apply(ctx, req.Items, actor); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

func (s *ConfigurationService) apply(ctx context.Context, items []dto.UpdateConfigurationRequest, actor *models.JWTClaims) (*dto.ConfigurationItem, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}

	candidate := s.settings.Current()
	previous := candidate
	toUpsert := make([]models.Configuration, 0, len(items))
	for _, item := range items {
		meta, ok := allowedConfigurations[item.Key]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported configuration key %s", item.Key))
		}
		value := strings.TrimSpace(item.Value)
		if err := applyConfigValue(&candidate, item.Key, value); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		toUpsert = append(toUpsert, models.Configuration{
			Key:       item.Key,
			Value:     value,
			Type:      meta.Type,
			UpdatedBy: actor.UserID,
		})
	}

	if err := candidate.Validate(); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	if len(toUpsert) == 1 {
		if err := s.repo.Upsert(ctx, &toUpsert[0]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update configuration")
		}
	} else {
		if err := s.repo.BulkUpsert(ctx, toUpsert); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bulk update configurations")
		}
	}

	s.settings.Replace(candidate)
	for _, cfg := range toUpsert {
		s.emitAudit(ctx, actor, cfg.Key, configValue(previous, cfg.Key), cfg.Value)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
			s.logger.Warn("failed to invalidate dashboards after config change", zap.Error(err))
		}
	}

	first := toUpsert[0]
	meta := allowedConfigurations[first.Key]
	return &dto.ConfigurationItem{
		Key:         first.Key,
		Value:       first.Value,
		Type:        string(meta.Type),
		Description: meta.Description,
	}, nil
}

func (s *ConfigurationService) emitAudit(ctx context.Context, actor *models.JWTClaims, key, oldValue, newValue string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		ActorID:  actor.UserID,
		Action:   models.AuditActionConfigUpdate,
		Entity:   "configuration",
		EntityID: key,
		OldValue: &oldValue,
		NewValue: &newValue,
	}
	if err := s.audit.Create(ctx, log); err != nil {
		s.logger.Warn("failed to record configuration audit", zap.Error(err))
	}
}

func allowedKeys() []string {
	keys := make([]string, len(allowedConfigurationKeys))
	copy(keys, allowedConfigurationKeys)
	return keys
}

func applyConfigValue(cfg *engine.Config, key, value string) error {
	meta, ok := allowedConfigurations[key]
	if !ok {
		return fmt.Errorf("unsupported configuration key %s", key)
	}
	switch meta.Type {
	case models.ConfigurationTypeBool:
		parsed, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return fmt.Errorf("%s expects a boolean value", key)
		}
		if key == models.ConfigKeyVisitDueOnMonthEnd {
			cfg.VisitDueOnMonthEnd = parsed
		}
		return nil
	case models.ConfigurationTypeInt:
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s expects an integer value", key)
		}
		switch key {
		case models.ConfigKeyMinDaysForInclusion:
			cfg.MinDaysForInclusion = parsed
		case models.ConfigKeyReportDueDay:
			cfg.ReportDueDay = parsed
		case models.ConfigKeyVisitDueDay:
			cfg.VisitDueDay = parsed
		case models.ConfigKeyMinInternshipWeeks:
			cfg.MinInternshipWeeks = parsed
		case models.ConfigKeyMaxInternshipMonths:
			cfg.MaxInternshipMonths = parsed
		case models.ConfigKeyMissingReportGrace:
			cfg.MissingReportGraceDays = parsed
		case models.ConfigKeyTierExcellentMin:
			cfg.ExcellentMin = parsed
		case models.ConfigKeyTierGoodMin:
			cfg.GoodMin = parsed
		case models.ConfigKeyTierWarningMin:
			cfg.WarningMin = parsed
		case models.ConfigKeyTierCriticalMin:
			cfg.CriticalMin = parsed
		}
		return nil
	default:
		return fmt.Errorf("unsupported configuration type for %s", key)
	}
}

func configValue(cfg engine.Config, key string) string {
	switch key {
	case models.ConfigKeyMinDaysForInclusion:
		return strconv.Itoa(cfg.MinDaysForInclusion)
	case models.ConfigKeyReportDueDay:
		return strconv.Itoa(cfg.ReportDueDay)
	case models.ConfigKeyVisitDueOnMonthEnd:
		return strconv.FormatBool(cfg.VisitDueOnMonthEnd)
	case models.ConfigKeyVisitDueDay:
		return strconv.Itoa(cfg.VisitDueDay)
	case models.ConfigKeyMinInternshipWeeks:
		return strconv.Itoa(cfg.MinInternshipWeeks)
	case models.ConfigKeyMaxInternshipMonths:
		return strconv.Itoa(cfg.MaxInternshipMonths)
	case models.ConfigKeyMissingReportGrace:
		return strconv.Itoa(cfg.MissingReportGraceDays)
	case models.ConfigKeyTierExcellentMin:
		return strconv.Itoa(cfg.ExcellentMin)
	case models.ConfigKeyTierGoodMin:
		return strconv.Itoa(cfg.GoodMin)
	case models.ConfigKeyTierWarningMin:
		return strconv.Itoa(cfg.WarningMin)
	case models.ConfigKeyTierCriticalMin:
		return strconv.Itoa(cfg.CriticalMin)
	default:
		return ""
	}
}
