package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Checker defines the interface for health checking components
type Checker interface {
	HealthCheck(ctx context.Context) error
	IsCritical() bool // Critical services block startup if unhealthy
	Name() string
}

// Manager runs health checks for all registered components
type Manager struct {
	checkers []Checker
	logger   *zap.Logger
	now      func() time.Time
	mu       sync.RWMutex
}

// NewManager creates a new health manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		checkers: make([]Checker, 0),
		logger:   logger,
		now:      time.Now,
	}
}

// AddChecker adds a health checker to the manager. Names key the health
// report, so a second checker with a name already registered is rejected.
func (m *Manager) AddChecker(checker Checker) error {
	if checker == nil {
		return fmt.Errorf("health checker is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.checkers {
		if existing.Name() == checker.Name() {
			return fmt.Errorf("health checker %q already registered", checker.Name())
		}
	}
	m.checkers = append(m.checkers, checker)
	return nil
}

// StartupHealthCheck performs critical health checks that must pass for startup
func (m *Manager) StartupHealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var criticalFailures []error

	for _, checker := range m.checkers {
		err := checker.HealthCheck(ctx)
		if err == nil {
			m.logger.Info("Service health check passed",
				zap.String("service", checker.Name()),
				zap.Bool("critical", checker.IsCritical()))
			continue
		}

		if checker.IsCritical() {
			criticalFailures = append(criticalFailures, fmt.Errorf("%s: %w", checker.Name(), err))
			m.logger.Error("Critical service health check failed",
				zap.String("service", checker.Name()),
				zap.Error(err))
		} else {
			m.logger.Warn("Non-critical service health check failed",
				zap.String("service", checker.Name()),
				zap.Error(err))
		}
	}

	if len(criticalFailures) > 0 {
		return fmt.Errorf("critical services failed health check: %v", criticalFailures)
	}

	m.logger.Info("All critical services healthy", zap.Int("total_checks", len(m.checkers)))
	return nil
}

// RuntimeHealthCheck runs every checker and reports the result per name
func (m *Manager) RuntimeHealthCheck(ctx context.Context) map[string]error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make(map[string]error, len(m.checkers))
	for _, checker := range m.checkers {
		results[checker.Name()] = checker.HealthCheck(ctx)
	}
	return results
}

// Handler serves GET /health. Only critical failures make the service unhealthy.
func (m *Manager) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results := m.RuntimeHealthCheck(c.Request.Context())
		timestamp := m.now().Format(time.RFC3339)

		services := gin.H{}
		var failure error
		for _, checker := range m.snapshot() {
			err := results[checker.Name()]
			if err == nil {
				services[checker.Name()] = "healthy"
				continue
			}
			services[checker.Name()] = "unhealthy"
			if checker.IsCritical() && failure == nil {
				failure = fmt.Errorf("%s: %w", checker.Name(), err)
			}
		}

		if failure != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": timestamp,
				"services":  services,
				"error":     failure.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": timestamp,
			"services":  services,
		})
	}
}

func (m *Manager) snapshot() []Checker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Checker(nil), m.checkers...)
}

// ConfigChecker checks that the configuration was loaded
type ConfigChecker struct {
	config interface{}
}

// NewConfigChecker creates a config health checker
func NewConfigChecker(config interface{}) *ConfigChecker {
	return &ConfigChecker{config: config}
}

func (c *ConfigChecker) HealthCheck(ctx context.Context) error {
	if c.config == nil {
		return fmt.Errorf("configuration is nil")
	}
	return nil
}

func (c *ConfigChecker) IsCritical() bool {
	return true
}

func (c *ConfigChecker) Name() string {
	return "configuration"
}
