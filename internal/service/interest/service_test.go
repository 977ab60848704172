package interest_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/perfectcherry/cherry-server/internal/app"
	"github.com/perfectcherry/cherry-server/internal/cache"
	"github.com/perfectcherry/cherry-server/internal/config"
	"github.com/perfectcherry/cherry-server/internal/db"
	"github.com/perfectcherry/cherry-server/internal/mail"
	"github.com/perfectcherry/cherry-server/internal/messages"
	"github.com/perfectcherry/cherry-server/internal/service/interest"
	"github.com/perfectcherry/cherry-server/internal/storage"
)

//
// Test helpers
//

// fakeMailer records deliveries instead of talking to SMTP.
type fakeMailer struct {
	interestMails []mail.InterestEvent
	recipients    []string
}

func (f *fakeMailer) SendInterestMail(event mail.InterestEvent, toEmail string) error {
	f.interestMails = append(f.interestMails, event)
	f.recipients = append(f.recipients, toEmail)
	return nil
}

func (f *fakeMailer) SendPasswordResetMail(string) error        { return nil }
func (f *fakeMailer) SendTempPasswordMail(string, string) error { return nil }

// seedAccounts inserts a deterministic dataset for the interest tests.
//
// Dataset:
//   - account 1: active, London, has a profile photo and a gallery image
//   - account 2: active, London
//   - account 3: inactive
func seedAccounts(t *testing.T, gdb *gorm.DB) {
	t.Helper()

	accounts := []db.UserAccount{
		{ID: 1, PcID: "pc-1", Email: "one@test.com", Phone: "5550001", City: "London", Status: db.StatusActive},
		{ID: 2, PcID: "pc-2", Email: "two@test.com", Phone: "5550002", City: "London", Status: db.StatusActive},
		{ID: 3, PcID: "pc-3", Email: "three@test.com", Phone: "5550003", City: "London", Status: db.StatusInactive},
	}
	require.NoError(t, gdb.Create(&accounts).Error)

	images := []db.Image{
		{UserAccountID: 1, Name: "me.jpg", IsProfilePhoto: db.ProfilePhotoYes},
		{UserAccountID: 1, Name: "holiday.jpg", IsProfilePhoto: db.ProfilePhotoNo},
	}
	require.NoError(t, gdb.Create(&images).Error)
}

// setupService spins up an in-memory SQLite DB, applies migrations, seeds
// accounts, starts a miniredis, and wires everything into an interest
// service. Each test gets its own isolated DB + Redis.
func setupService(t *testing.T) (*interest.Service, *app.AppContext, *fakeMailer) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(&db.User{}, &db.UserAccount{}, &db.Image{}, &db.Interest{}))
	seedAccounts(t, dbase)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Upload.UsersDir = t.TempDir()
	cfg.Upload.Dir = t.TempDir()

	redisCache := cache.NewRedisCache(cfg)
	mailer := &fakeMailer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests

	appCtx := app.New(dbase, redisCache, mailer, storage.NewDiskStore(cfg), logger)
	return interest.NewService(appCtx), appCtx, mailer
}

//
// Tests
//

func TestSend_Success(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, mailer := setupService(t)

	msg, err := svc.Send(ctx, interest.SendRequest{UserID: 1, InterestedOn: 2})
	require.NoError(t, err)
	assert.Equal(t, messages.InterestSent, msg)

	var row db.Interest
	require.NoError(t, appCtx.DB.Where("user_id = ? AND interested_on = ?", 1, 2).First(&row).Error)
	assert.Equal(t, db.InterestPending, row.Status)

	// the target's cached pending counter is bumped
	count, found, err := appCtx.RedisCache.GetPendingCount(ctx, 2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(1), count)

	// and the target got notified
	require.Len(t, mailer.interestMails, 1)
	assert.Equal(t, mail.InterestNew, mailer.interestMails[0])
	assert.Equal(t, "two@test.com", mailer.recipients[0])
}

func TestSend_FieldValidationAggregates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.Send(ctx, interest.SendRequest{})
	require.Error(t, err)
	assert.Equal(t, "User ID is required, Interested on ID is required.", err.Error())

	_, err = svc.Send(ctx, interest.SendRequest{UserID: 1, InterestedOn: 1})
	require.Error(t, err)
	assert.Equal(t, "Cannot send an interest to yourself.", err.Error())
}

func TestSend_InactivePartiesAggregated(t *testing.T) {
	ctx := context.Background()
	svc, _, mailer := setupService(t)

	// source inactive, target missing: one reply listing both problems
	_, err := svc.Send(ctx, interest.SendRequest{UserID: 3, InterestedOn: 99})
	require.Error(t, err)
	assert.Equal(t, messages.NoActiveUser+", "+messages.NoActiveInterestedOn+".", err.Error())

	// only the target is a problem
	_, err = svc.Send(ctx, interest.SendRequest{UserID: 1, InterestedOn: 3})
	require.Error(t, err)
	assert.Equal(t, messages.NoActiveInterestedOn+".", err.Error())

	assert.Empty(t, mailer.interestMails)
}

func TestSend_DuplicateWhateverTheStatus(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	// an already declined interest still blocks a re-send
	require.NoError(t, appCtx.DB.Create(&db.Interest{UserID: 1, InterestedOn: 2, Status: db.InterestDeclined}).Error)

	_, err := svc.Send(ctx, interest.SendRequest{UserID: 1, InterestedOn: 2})
	require.Error(t, err)
	assert.Equal(t, messages.InterestAlreadySent, err.Error())

	var count int64
	require.NoError(t, appCtx.DB.Model(&db.Interest{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTransition_GuardOrdering(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	// the id guard fires before any lookup
	_, err := svc.Accept(ctx, 0)
	require.Error(t, err)
	assert.Equal(t, messages.InvalidInterestID, err.Error())

	_, err = svc.Decline(ctx, 999)
	require.Error(t, err)
	assert.Equal(t, messages.InterestNotFound, err.Error())
}

func TestAccept_NotifiesSenderAndDropsCounter(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, mailer := setupService(t)

	_, err := svc.Send(ctx, interest.SendRequest{UserID: 1, InterestedOn: 2})
	require.NoError(t, err)

	var row db.Interest
	require.NoError(t, appCtx.DB.Where("user_id = ?", 1).First(&row).Error)

	msg, err := svc.Accept(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, messages.InterestAccepted, msg)

	require.NoError(t, appCtx.DB.First(&row, row.ID).Error)
	assert.Equal(t, db.InterestAccepted, row.Status)

	count, found, err := appCtx.RedisCache.GetPendingCount(ctx, 2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(0), count)

	// send notified the target, accept notified the sender
	require.Len(t, mailer.interestMails, 2)
	assert.Equal(t, mail.InterestAccepted, mailer.interestMails[1])
	assert.Equal(t, "one@test.com", mailer.recipients[1])
}

func TestDecline_OverwritesAccepted(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	_, err := svc.Send(ctx, interest.SendRequest{UserID: 1, InterestedOn: 2})
	require.NoError(t, err)

	var row db.Interest
	require.NoError(t, appCtx.DB.Where("user_id = ?", 1).First(&row).Error)

	_, err = svc.Accept(ctx, row.ID)
	require.NoError(t, err)

	// last write wins; no state re-check guards the terminal status
	msg, err := svc.Decline(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, messages.InterestDeclined, msg)

	require.NoError(t, appCtx.DB.First(&row, row.ID).Error)
	assert.Equal(t, db.InterestDeclined, row.Status)
}

func TestTransition_RepeatDoesNotDriveCounterNegative(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	_, err := svc.Send(ctx, interest.SendRequest{UserID: 1, InterestedOn: 2})
	require.NoError(t, err)

	var row db.Interest
	require.NoError(t, appCtx.DB.Where("user_id = ?", 1).First(&row).Error)

	_, err = svc.Accept(ctx, row.ID)
	require.NoError(t, err)
	// re-transitioning a terminal interest must not decrement a second time
	_, err = svc.Decline(ctx, row.ID)
	require.NoError(t, err)

	cached, found, err := appCtx.RedisCache.GetPendingCount(ctx, 2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(0), cached)

	count, err := svc.PendingCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestPendingCount_CacheMissFallsBackToDB(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	// rows inserted behind the cache's back
	require.NoError(t, appCtx.DB.Create(&db.Interest{UserID: 1, InterestedOn: 2, Status: db.InterestPending}).Error)
	require.NoError(t, appCtx.DB.Create(&db.Interest{UserID: 3, InterestedOn: 2, Status: db.InterestPending}).Error)

	count, err := svc.PendingCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// the miss refilled the cache
	cached, found, err := appCtx.RedisCache.GetPendingCount(ctx, 2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(2), cached)
}

func TestSentAndReceived_CounterpartShaping(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.Send(ctx, interest.SendRequest{UserID: 1, InterestedOn: 2})
	require.NoError(t, err)

	sent, err := svc.Sent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, uint64(2), sent[0].ID)

	// the receiver sees the sender shaped down to the profile photo
	received, err := svc.Received(ctx, 2)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, uint64(1), received[0].ID)
	require.Len(t, received[0].Images, 1)
	assert.Equal(t, db.ProfilePhotoYes, received[0].Images[0].IsProfilePhoto)
}

func TestAcceptedAndDeclinedReads(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	_, err := svc.Send(ctx, interest.SendRequest{UserID: 1, InterestedOn: 2})
	require.NoError(t, err)

	var row db.Interest
	require.NoError(t, appCtx.DB.Where("user_id = ?", 1).First(&row).Error)
	_, err = svc.Accept(ctx, row.ID)
	require.NoError(t, err)

	// accepted rows leave the pending reads
	sent, err := svc.Sent(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, sent)

	byMe, err := svc.AcceptedByMe(ctx, 2)
	require.NoError(t, err)
	require.Len(t, byMe, 1)
	assert.Equal(t, uint64(1), byMe[0].ID)

	byThem, err := svc.AcceptedByThem(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byThem, 1)
	assert.Equal(t, uint64(2), byThem[0].ID)

	declined, err := svc.DeclinedByMe(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, declined)
}
