package usecase

import (
	"time"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
)

// DefaultLockDuration is how long a claimed task stays locked without
// a refresh.
const DefaultLockDuration = 15 * time.Minute

type UseCases struct {
	repo         interfaces.Repository
	authz        interfaces.Authorizer
	prefs        interfaces.Preferences
	notifier     interfaces.NotificationSink
	lockDuration time.Duration
	now          func() time.Time

	Lock   *LockUseCase
	Status *StatusUseCase
	Review *ReviewUseCase
	Bundle *BundleUseCase
}

type Option func(*UseCases)

// WithAuthorizer sets the reviewer/admin capability check. Without it
// every reviewer-gated transition is denied.
func WithAuthorizer(authz interfaces.Authorizer) Option {
	return func(uc *UseCases) {
		uc.authz = authz
	}
}

// WithPreferences sets the standing-preference lookup consulted when a
// status change does not state requestReview explicitly.
func WithPreferences(prefs interfaces.Preferences) Option {
	return func(uc *UseCases) {
		uc.prefs = prefs
	}
}

// WithNotifier sets the sink receiving claim/release events
func WithNotifier(notifier interfaces.NotificationSink) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

// WithLockDuration overrides the claim lock duration
func WithLockDuration(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.lockDuration = d
	}
}

// WithNow overrides the clock, for expiry tests
func WithNow(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:         repo,
		lockDuration: DefaultLockDuration,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Review = &ReviewUseCase{
		repo:  repo,
		authz: uc.authz,
	}
	uc.Status = &StatusUseCase{
		repo:   repo,
		prefs:  uc.prefs,
		review: uc.Review,
	}
	uc.Lock = &LockUseCase{
		repo:         repo,
		notifier:     uc.notifier,
		lockDuration: uc.lockDuration,
		now:          uc.now,
	}
	uc.Bundle = &BundleUseCase{
		repo:   repo,
		status: uc.Status,
		review: uc.Review,
	}

	return uc
}
