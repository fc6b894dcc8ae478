package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/engine"
	"github.com/noah-isme/internship-compliance-api/internal/models"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
)

type mockConfigurationRepo struct {
	stored map[string]models.Configuration
}

func (m *mockConfigurationRepo) ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error) {
	var rows []models.Configuration
	for _, key := range keys {
		if row, ok := m.stored[key]; ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (m *mockConfigurationRepo) Upsert(ctx context.Context, cfg *models.Configuration) error {
	if m.stored == nil {
		m.stored = make(map[string]models.Configuration)
	}
	m.stored[cfg.Key] = *cfg
	return nil
}

func (m *mockConfigurationRepo) BulkUpsert(ctx context.Context, cfgs []models.Configuration) error {
	for i := range cfgs {
		_ = m.Upsert(ctx, &cfgs[i])
	}
	return nil
}

type mockAuditLogger struct {
	logs []models.AuditLog
}

func (m *mockAuditLogger) Create(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func stateActor() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin1", Role: models.RoleState}
}

func TestConfigurationUpdateAppliesAtRuntime(t *testing.T) {
	repo := &mockConfigurationRepo{}
	audit := &mockAuditLogger{}
	settings := NewComplianceSettings(engine.DefaultConfig())
	svc := NewConfigurationService(ConfigurationServiceParams{Repo: repo, Audit: audit, Settings: settings})

	item, err := svc.Update(context.Background(), models.ConfigKeyReportDueDay, "10", stateActor())
	require.NoError(t, err)
	assert.Equal(t, "10", item.Value)
	assert.Equal(t, 10, settings.Current().ReportDueDay)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionConfigUpdate, audit.logs[0].Action)
	require.NotNil(t, audit.logs[0].OldValue)
	assert.Equal(t, "5", *audit.logs[0].OldValue)
}

func TestConfigurationUpdateRejectsOutOfRange(t *testing.T) {
	repo := &mockConfigurationRepo{}
	settings := NewComplianceSettings(engine.DefaultConfig())
	svc := NewConfigurationService(ConfigurationServiceParams{Repo: repo, Settings: settings})

	// 31 can never be a due day; the value is rejected outright rather than
	// clamped to 28.
	_, err := svc.Update(context.Background(), models.ConfigKeyReportDueDay, "31", stateActor())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 5, settings.Current().ReportDueDay)
	assert.Empty(t, repo.stored)
}

func TestConfigurationUpdateRejectsUnknownKey(t *testing.T) {
	svc := NewConfigurationService(ConfigurationServiceParams{Repo: &mockConfigurationRepo{}})

	_, err := svc.Update(context.Background(), "compliance.unknown", "1", stateActor())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestConfigurationUpdateRequiresActor(t *testing.T) {
	svc := NewConfigurationService(ConfigurationServiceParams{Repo: &mockConfigurationRepo{}})

	_, err := svc.Update(context.Background(), models.ConfigKeyReportDueDay, "10", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestConfigurationTierBoundariesMoveTogether(t *testing.T) {
	repo := &mockConfigurationRepo{}
	settings := NewComplianceSettings(engine.DefaultConfig())
	svc := NewConfigurationService(ConfigurationServiceParams{Repo: repo, Settings: settings})

	// Raising good_min above excellent_min on its own breaks the ordering.
	_, err := svc.Update(context.Background(), models.ConfigKeyTierGoodMin, "95", stateActor())
	require.Error(t, err)
	assert.Equal(t, 70, settings.Current().GoodMin)

	// The same move succeeds when the boundaries shift together.
	_, err = svc.BulkUpdate(context.Background(), dto.BulkUpdateConfigurationRequest{Items: []dto.UpdateConfigurationRequest{
		{Key: models.ConfigKeyTierExcellentMin, Value: "97"},
		{Key: models.ConfigKeyTierGoodMin, Value: "95"},
	}}, stateActor())
	require.NoError(t, err)
	assert.Equal(t, 97, settings.Current().ExcellentMin)
	assert.Equal(t, 95, settings.Current().GoodMin)
}

func TestConfigurationListMergesOverrides(t *testing.T) {
	repo := &mockConfigurationRepo{stored: map[string]models.Configuration{
		models.ConfigKeyReportDueDay: {Key: models.ConfigKeyReportDueDay, Value: "7", Type: models.ConfigurationTypeInt},
	}}
	svc := NewConfigurationService(ConfigurationServiceParams{Repo: repo})

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, len(allowedConfigurationKeys))

	byKey := make(map[string]dto.ConfigurationItem, len(items))
	for _, item := range items {
		byKey[item.Key] = item
	}
	assert.Equal(t, "7", byKey[models.ConfigKeyReportDueDay].Value)
	assert.Equal(t, "10", byKey[models.ConfigKeyMinDaysForInclusion].Value)
}

func TestConfigurationLoadOverrides(t *testing.T) {
	repo := &mockConfigurationRepo{stored: map[string]models.Configuration{
		models.ConfigKeyReportDueDay:       {Key: models.ConfigKeyReportDueDay, Value: "7", Type: models.ConfigurationTypeInt},
		models.ConfigKeyVisitDueOnMonthEnd: {Key: models.ConfigKeyVisitDueOnMonthEnd, Value: "false", Type: models.ConfigurationTypeBool},
	}}
	settings := NewComplianceSettings(engine.DefaultConfig())
	svc := NewConfigurationService(ConfigurationServiceParams{Repo: repo, Settings: settings})

	require.NoError(t, svc.LoadOverrides(context.Background()))
	assert.Equal(t, 7, settings.Current().ReportDueDay)
	assert.False(t, settings.Current().VisitDueOnMonthEnd)
}

func TestConfigurationLoadOverridesRejectsInvalidCombination(t *testing.T) {
	repo := &mockConfigurationRepo{stored: map[string]models.Configuration{
		models.ConfigKeyTierGoodMin: {Key: models.ConfigKeyTierGoodMin, Value: "95", Type: models.ConfigurationTypeInt},
	}}
	settings := NewComplianceSettings(engine.DefaultConfig())
	svc := NewConfigurationService(ConfigurationServiceParams{Repo: repo, Settings: settings})

	require.Error(t, svc.LoadOverrides(context.Background()))
	assert.Equal(t, 70, settings.Current().GoodMin)
}
