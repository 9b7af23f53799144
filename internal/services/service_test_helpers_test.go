package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shiningprism/prism-auth/internal/models"
	"github.com/shiningprism/prism-auth/internal/store"
	"github.com/shiningprism/prism-auth/pkg/mail"
)

func newTestAccounts(t *testing.T) *store.AccountStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Account{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	accounts, err := store.NewAccountStore(db)
	require.NoError(t, err)
	return accounts
}

// recordingMailer captures outbound messages and optionally fails delivery.
type recordingMailer struct {
	mu      sync.Mutex
	sent    []mail.Message
	sendErr error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]mail.Message, len(m.sent))
	copy(out, m.sent)
	return out
}
