package main

import (
	"testing"

	"teammatch/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenRegistryRequiresPostgres(t *testing.T) {
	registry, err := openRegistry(&config.Config{StorageBackend: config.BackendMemory}, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, registry)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND=postgres")
}
