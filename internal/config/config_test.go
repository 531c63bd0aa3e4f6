package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm api key is required")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Security.MaxMessagesPerMinute)
	assert.Equal(t, 500, cfg.Security.MaxMessageLength)
	assert.Equal(t, 5, cfg.Security.BanMinutes)
	assert.Equal(t, "deepseek-chat", cfg.LLM.Model)
	assert.Equal(t, 0.9, cfg.LLM.Temperature)
	assert.Equal(t, 60, cfg.LLM.MaxTokens)
	assert.Equal(t, "ventbot.moderation.audit", cfg.RabbitMQ.ModerationAuditQueue)
	assert.Len(t, cfg.Topics(), 5)
	assert.Contains(t, cfg.Topics(), "AI Ethics")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("MAX_MESSAGES_PER_MINUTE", "10")
	t.Setenv("MAX_MESSAGE_LENGTH", "120")
	t.Setenv("PREDEFINED_TOPICS", "Traffic, Rent")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Security.MaxMessagesPerMinute)
	assert.Equal(t, 120, cfg.Security.MaxMessageLength)
	assert.Equal(t, []string{"Traffic", "Rent"}, cfg.Topics())
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTPAddr())
}

func TestAdminUserIDs(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("ADMIN_USERS", "123, 456,junk, ,789")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []int64{123, 456, 789}, cfg.AdminUserIDs())
}

func TestMySQLDSN(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t,
		"root:@tcp(127.0.0.1:3306)/ventbot?parseTime=true&loc=Local&charset=utf8mb4",
		cfg.MySQLDSN(),
	)
}
