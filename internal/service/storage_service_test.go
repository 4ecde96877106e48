package service

import (
	"testing"

	"course_platform_backend/internal/config"
	"course_platform_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStorageMinioInitFailureLogsAndFallsBack(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = zap.NewNop() })

	cfg := &config.Config{}
	cfg.Storage.Type = "minio"
	cfg.Storage.MinioEndpoint = "not a valid endpoint"
	cfg.Storage.LocalPath = t.TempDir()

	svc := NewStorageService(cfg)

	// local disk takes over, and the broken config is visible in the log
	_, ok := svc.Provider.(*LocalStorageProvider)
	assert.True(t, ok)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Contains(t, entry.Message, "MinIO")
	assert.Equal(t, "not a valid endpoint", entry.ContextMap()["endpoint"])
}
