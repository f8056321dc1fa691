package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"labstock/internal/cache"
)

func TestOverallStatusGatesOnDatabaseOnly(t *testing.T) {
	assert.Equal(t, "healthy", overallStatus("healthy"))
	assert.Equal(t, "unhealthy", overallStatus("unhealthy"))
	assert.Equal(t, "unhealthy", overallStatus(""))
}

func TestCacheStatusNeverFailsReadiness(t *testing.T) {
	assert.Equal(t, "disabled", cacheStatus(nil))
	assert.Equal(t, "disabled", cacheStatus(&cache.Cache{}))

	// A disabled cache must not drag the overall status down
	assert.Equal(t, "healthy", overallStatus("healthy"))
}
