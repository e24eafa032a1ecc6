package lambda

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/config"
	"plant-shop-api/pkg/server"
)

// ConnectionManager caches the service container across warm Lambda invocations
type ConnectionManager struct {
	container  *server.Container
	components server.Component
	mu         sync.Mutex
	config     *config.Config
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = &ConnectionManager{}
	})
	return globalConnectionManager
}

// Initialize selects the components the function builds. Without it every
// component is built. It has no effect once a container exists.
func (cm *ConnectionManager) Initialize(components server.Component) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.container == nil {
		cm.components = components
	}
}

// GetContainer returns the service container, building it on first use.
// A failed build is not cached, so the next invocation retries it.
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		return cm.container, nil
	}

	if cm.config == nil {
		cfg, err := config.GetOptimizedConfig()
		if err != nil {
			return nil, err
		}
		cm.config = cfg
	}

	components := cm.components
	if components == 0 {
		components = server.ComponentAll
	}

	container, err := server.NewContainerFor(ctx, cm.config, nil, components)
	if err != nil {
		return nil, err
	}

	cm.container = container
	return container, nil
}

// Cleanup closes the cached container
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}
	return nil
}

// Shutdown releases the global container; it is registered as a SIGTERM hook
func Shutdown() {
	if err := GetConnectionManager().Cleanup(); err != nil {
		logrus.WithError(err).Error("Failed to release container")
	}
}
