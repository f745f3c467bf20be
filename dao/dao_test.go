package dao

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"nvcoach-backend/models"
)

// openTestDB spins up an isolated in-memory sqlite database with the real
// schema. One open connection keeps sqlite from reporting spurious lock
// errors under concurrent transactions.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.ConversionSession{}, &models.FollowUpExchange{}))
	return db
}

func testFeedback() models.Feedback {
	return models.Feedback{
		Improvements:     models.Improvements{Observation: []string{"更中性地描述"}},
		OverallFeedback:  "整体反馈",
		Score:            8,
		StandardResponse: "标准答案",
	}
}

func createTestSession(t *testing.T, d *SessionDAO) *models.ConversionSession {
	t.Helper()
	session, err := d.CreateSession("原始表达", "观察", "感受", "需要", "请求", testFeedback())
	require.NoError(t, err)
	return session
}
