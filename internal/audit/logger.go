package audit

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"masterdata-service/internal/models"
)

// Logger writes the user activity trail. Failures are logged and swallowed
// so a broken audit table never fails the mutation that triggered it.
type Logger interface {
	Record(ctx context.Context, userID, compID int64, isWeb bool, activity string)
}

type dbLogger struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewLogger(db *gorm.DB, log *logrus.Logger) Logger {
	return &dbLogger{db: db, log: log}
}

func (l *dbLogger) Record(ctx context.Context, userID, compID int64, isWeb bool, activity string) {
	entry := models.UserLog{
		UserID:   userID,
		CompID:   compID,
		Activity: activity,
		IsWeb:    isWeb,
	}
	if err := l.db.WithContext(ctx).Create(&entry).Error; err != nil {
		l.log.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID,
			"activity": activity,
		}).Warn("Failed to write audit log entry")
	}
}

// Activity formats the standard "<verb> <entity> - <detail>" trail message.
func Activity(verb, entity, detail string) string {
	return fmt.Sprintf("%s %s - %s", verb, entity, detail)
}

type bufferedEntry struct {
	userID   int64
	compID   int64
	isWeb    bool
	activity string
}

// Buffered collects records in memory until Flush. It backs transactional
// work: records made against rows that later roll back are simply discarded
// with the buffer, so the trail never mentions rows that were not committed.
// Not safe for concurrent use.
type Buffered struct {
	entries []bufferedEntry
}

func NewBuffered() *Buffered {
	return &Buffered{}
}

func (b *Buffered) Record(ctx context.Context, userID, compID int64, isWeb bool, activity string) {
	b.entries = append(b.entries, bufferedEntry{userID: userID, compID: compID, isWeb: isWeb, activity: activity})
}

// Flush replays the buffered records into the sink and clears the buffer.
func (b *Buffered) Flush(ctx context.Context, sink Logger) {
	for _, e := range b.entries {
		sink.Record(ctx, e.userID, e.compID, e.isWeb, e.activity)
	}
	b.entries = nil
}
