package service

import (
	"sync"

	"github.com/noah-isme/internship-compliance-api/internal/engine"
)

// ComplianceSettings holds the live engine thresholds. The configuration API
// swaps the whole value atomically after validation, so readers always see a
// complete, valid config.
type ComplianceSettings struct {
	mu  sync.RWMutex
	cfg engine.Config
}

// NewComplianceSettings seeds the holder with a validated config.
func NewComplianceSettings(cfg engine.Config) *ComplianceSettings {
	return &ComplianceSettings{cfg: cfg}
}

// Current returns the active engine config by value.
func (s *ComplianceSettings) Current() engine.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Replace installs a new config. Callers must validate it first.
func (s *ComplianceSettings) Replace(cfg engine.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}
