// Package interest implements the propose/accept/decline workflow between
// user accounts, plus its read-side relation queries.
package interest

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/perfectcherry/cherry-server/internal/app"
	"github.com/perfectcherry/cherry-server/internal/apperr"
	"github.com/perfectcherry/cherry-server/internal/db"
	"github.com/perfectcherry/cherry-server/internal/mail"
	"github.com/perfectcherry/cherry-server/internal/messages"
	"github.com/perfectcherry/cherry-server/internal/repository"
	"github.com/perfectcherry/cherry-server/internal/utils/validation"
)

// SendRequest is the payload of POST /interest/send.
type SendRequest struct {
	UserID       uint64 `json:"user_id"`
	InterestedOn uint64 `json:"interested_on"`
}

// Service contains the interest business logic on top of the repository and
// cache layers.
type Service struct {
	appCtx    *app.AppContext
	interests *repository.InterestRepository
	accounts  *repository.UserAccountRepository
}

// NewService creates the interest service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		interests: repository.NewInterestRepository(appCtx.DB),
		accounts:  repository.NewUserAccountRepository(appCtx.DB),
	}
}

// Send creates a new pending interest from source to target.
//
// Guards, in order:
//  1. field presence (both ids, no self-interest),
//  2. both parties active; every inactive party is listed in one
//     aggregated message, never a partial success,
//  3. no prior interest for the exact (source, target) pair, whatever its
//     status.
//
// On success the row is persisted inside a transaction, the target is
// notified by mail (fire-and-observe: delivery failure is logged, the
// request still succeeds) and the target's pending counter is bumped.
func (s *Service) Send(ctx context.Context, req SendRequest) (string, error) {
	s.appCtx.Logger.Debug("interest send", "source", req.UserID, "target", req.InterestedOn)

	if msg := validation.Interest(req.UserID, req.InterestedOn); msg != "" {
		return "", apperr.Validation(msg)
	}

	var problems []string
	sourceActive, err := s.accounts.IsActive(ctx, req.UserID)
	if err != nil {
		return "", err
	}
	if !sourceActive {
		problems = append(problems, messages.NoActiveUser)
	}
	target, err := s.accounts.FindActive(ctx, req.InterestedOn)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if target == nil {
		problems = append(problems, messages.NoActiveInterestedOn)
	}
	if len(problems) > 0 {
		return "", apperr.Validation(strings.Join(problems, ", ") + ".")
	}

	exists, err := s.interests.Exists(ctx, req.UserID, req.InterestedOn)
	if err != nil {
		return "", err
	}
	if exists {
		return "", apperr.Duplicate(messages.InterestAlreadySent)
	}

	interest := db.Interest{
		UserID:       req.UserID,
		InterestedOn: req.InterestedOn,
		Status:       db.InterestPending,
	}
	err = s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		return repository.NewInterestRepository(tx).Create(ctx, &interest)
	})
	if err != nil {
		return "", err
	}

	s.notify(mail.InterestNew, target.Email)
	if err := s.appCtx.RedisCache.IncrPendingCount(ctx, req.InterestedOn); err != nil {
		s.appCtx.Logger.Warn("pending counter incr failed", "target", req.InterestedOn, "err", err)
	}

	s.appCtx.Logger.Info("interest sent", "source", req.UserID, "target", req.InterestedOn, "id", interest.ID)
	return messages.InterestSent, nil
}

// Accept transitions an interest to Accepted and notifies the sender.
func (s *Service) Accept(ctx context.Context, interestID uint64) (string, error) {
	return s.transition(ctx, interestID, db.InterestAccepted, mail.InterestAccepted, messages.InterestAccepted)
}

// Decline transitions an interest to Declined and notifies the sender.
func (s *Service) Decline(ctx context.Context, interestID uint64) (string, error) {
	return s.transition(ctx, interestID, db.InterestDeclined, mail.InterestDeclined, messages.InterestDeclined)
}

// transition is the shared accept/decline path.
//
// The id guard and the existence check both run before any write. The
// current status is not re-checked: the write overwrites whatever is there,
// so concurrent accept+decline is last-write-wins.
func (s *Service) transition(ctx context.Context, interestID uint64, status string, event mail.InterestEvent, okMsg string) (string, error) {
	if interestID == 0 {
		return "", apperr.Validation(messages.InvalidInterestID)
	}

	interest, err := s.interests.FindByID(ctx, interestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.NotFound(messages.InterestNotFound)
	} else if err != nil {
		return "", err
	}

	err = s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		return repository.NewInterestRepository(tx).UpdateStatus(ctx, interestID, status)
	})
	if err != nil {
		return "", err
	}

	if sender, err := s.accounts.FindByID(ctx, interest.UserID); err == nil {
		s.notify(event, sender.Email)
	}
	// Only a row that was still pending consumed a counter slot; a repeated
	// transition must not drive the cached count negative.
	if interest.Status == db.InterestPending {
		if err := s.appCtx.RedisCache.DecrPendingCount(ctx, interest.InterestedOn); err != nil {
			s.appCtx.Logger.Warn("pending counter decr failed", "target", interest.InterestedOn, "err", err)
		}
	}

	s.appCtx.Logger.Info("interest transitioned", "id", interestID, "status", status)
	return okMsg, nil
}

// Sent returns the accounts the user has a pending interest in.
func (s *Service) Sent(ctx context.Context, userID uint64) ([]db.UserAccount, error) {
	return s.counterparts(ctx, userID, s.interests.SentTo, false)
}

// Received returns the accounts with a pending interest in the user,
// each shaped down to its profile photo only.
func (s *Service) Received(ctx context.Context, userID uint64) ([]db.UserAccount, error) {
	return s.counterparts(ctx, userID, s.interests.ReceivedFrom, true)
}

// AcceptedByMe returns the accounts whose interest the user accepted.
func (s *Service) AcceptedByMe(ctx context.Context, userID uint64) ([]db.UserAccount, error) {
	return s.counterparts(ctx, userID, s.interests.AcceptedByMe, false)
}

// AcceptedByThem returns the accounts that accepted the user's interest.
func (s *Service) AcceptedByThem(ctx context.Context, userID uint64) ([]db.UserAccount, error) {
	return s.counterparts(ctx, userID, s.interests.AcceptedByThem, false)
}

// DeclinedByMe returns the accounts whose interest the user declined.
func (s *Service) DeclinedByMe(ctx context.Context, userID uint64) ([]db.UserAccount, error) {
	return s.counterparts(ctx, userID, s.interests.DeclinedByMe, false)
}

// DeclinedByThem returns the accounts that declined the user's interest.
func (s *Service) DeclinedByThem(ctx context.Context, userID uint64) ([]db.UserAccount, error) {
	return s.counterparts(ctx, userID, s.interests.DeclinedByThem, false)
}

// PendingCount returns how many interests await the user's answer.
// Cache-first: Redis, then DB fallback with a cache refill.
func (s *Service) PendingCount(ctx context.Context, userID uint64) (int64, error) {
	if n, found, err := s.appCtx.RedisCache.GetPendingCount(ctx, userID); err == nil && found {
		return n, nil
	}

	count, err := s.interests.CountPendingFor(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.appCtx.RedisCache.SetPendingCount(ctx, userID, count); err != nil {
		s.appCtx.Logger.Warn("pending counter refill failed", "user", userID, "err", err)
	}
	return count, nil
}

func (s *Service) counterparts(ctx context.Context, userID uint64, query func(context.Context, uint64) ([]uint64, error), profileOnly bool) ([]db.UserAccount, error) {
	ids, err := query(ctx, userID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.FindAllByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if profileOnly {
		for i := range accounts {
			accounts[i].Images = profilePhotosOnly(accounts[i].Images)
		}
	}
	return accounts, nil
}

// profilePhotosOnly is a response-shaping step, not a persistence mutation.
func profilePhotosOnly(images []db.Image) []db.Image {
	var kept []db.Image
	for _, img := range images {
		if img.IsProfilePhoto == db.ProfilePhotoYes {
			kept = append(kept, img)
		}
	}
	return kept
}

func (s *Service) notify(event mail.InterestEvent, email string) {
	if email == "" {
		return
	}
	if err := s.appCtx.Mailer.SendInterestMail(event, email); err != nil {
		s.appCtx.Logger.Warn("interest mail delivery failed", "event", string(event), "err", err)
	}
}
