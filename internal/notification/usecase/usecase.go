package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/notification"
	"github.com/fekuna/omnipos-storefront-service/internal/notification/dto"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// userListLimit caps one inbox read.
	userListLimit     = 100
	defaultBatchSize  = 100
	defaultLockTTL    = 30 * time.Second
	sweepLockKey      = "lock:notifications:sweep"
	userLockKeyPrefix = "lock:notifications:"
)

var ErrFetchNotifications = apperror.New(apperror.CodeUnavailable, "error.fetch_notifications", "failed to fetch notifications")

var errProductMissing = errors.New("product no longer exists")

// ProductReader looks up the live product behind a notification.
type ProductReader interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

// Locker is a best-effort mutual exclusion across service replicas.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
	ExtendLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type Config struct {
	LockTTL   time.Duration
	BatchSize int
}

type notificationUseCase struct {
	repo      notification.Repository
	products  ProductReader
	locker    Locker
	publisher EventPublisher
	validate  *validator.Validate
	lockTTL   time.Duration
	batchSize int
	now       func() time.Time
	logger    logger.ZapLogger
}

// NewNotificationUseCase builds the use case. locker and publisher may be nil.
func NewNotificationUseCase(
	repo notification.Repository,
	products ProductReader,
	locker Locker,
	publisher EventPublisher,
	cfg Config,
	log logger.ZapLogger,
) notification.UseCase {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &notificationUseCase{
		repo:      repo,
		products:  products,
		locker:    locker,
		publisher: publisher,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		lockTTL:   cfg.LockTTL,
		batchSize: cfg.BatchSize,
		now:       time.Now,
		logger:    log,
	}
}

func (uc *notificationUseCase) ListNotifications(ctx context.Context, userID string) (*dto.NotificationList, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("missing user")
	}

	filters := &dto.NotificationFilters{UserID: userID, Limit: userListLimit}

	// the list must be read while holding the user lock
	held, ok := uc.lock(ctx, userLockKeyPrefix+userID)
	list, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		if ok {
			held.release(ctx)
		}
		uc.logger.Error("failed to list notifications", zap.String("user_id", userID), zap.Error(err))
		return nil, fetchError(err)
	}
	if !ok {
		uc.logger.Debug("notifications busy, returning unreconciled list", zap.String("user_id", userID))
		return buildList(list), nil
	}
	res := uc.reconcile(ctx, list, map[string]float64{})
	held.release(ctx)

	if res.Flipped > 0 {
		list, err = uc.repo.FindAll(ctx, filters)
		if err != nil {
			uc.logger.Error("failed to refetch notifications", zap.String("user_id", userID), zap.Error(err))
			return nil, fetchError(err)
		}
	}
	return buildList(list), nil
}

func (uc *notificationUseCase) CreateNotification(ctx context.Context, input *dto.CreateNotificationInput) (*model.ProductNotification, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	p, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if p == nil {
		return nil, apperror.NotFound("error.product_not_found", "product not found")
	}

	existing, err := uc.repo.FindAll(ctx, &dto.NotificationFilters{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Limit:     userListLimit,
	})
	if err != nil {
		return nil, fetchError(err)
	}
	for i := range existing {
		if existing[i].RequestStatus == model.StatusPending {
			return &existing[i], nil
		}
	}

	now := uc.now()
	n := &model.ProductNotification{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:        input.UserID,
		ProductID:     p.ID,
		ProductName:   p.Name,
		RequestStatus: model.StatusPending,
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	uc.logger.Info("restock notification requested",
		zap.String("notification_id", n.ID),
		zap.String("user_id", n.UserID),
		zap.String("product_id", n.ProductID),
	)
	return n, nil
}

func (uc *notificationUseCase) MarkRead(ctx context.Context, userID, id string) (*model.ProductNotification, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("missing user")
	}

	n, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fetchError(err)
	}
	// someone else's notification is reported as missing
	if n == nil || n.UserID != userID {
		return nil, apperror.NotFound("error.notification_not_found", "notification not found")
	}
	if n.IsRead {
		return n, nil
	}

	if err := uc.repo.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

func (uc *notificationUseCase) ReconcileAll(ctx context.Context) (*dto.ReconcileResult, error) {
	held, ok := uc.lock(ctx, sweepLockKey)
	if !ok {
		uc.logger.Debug("another replica is sweeping notifications")
		return &dto.ReconcileResult{}, nil
	}
	defer held.release(ctx)

	return uc.sweep(ctx, dto.NotificationFilters{}, held)
}

func (uc *notificationUseCase) ReconcileProduct(ctx context.Context, productID string) (*dto.ReconcileResult, error) {
	if productID == "" {
		return nil, apperror.Validation("product id is required")
	}
	return uc.sweep(ctx, dto.NotificationFilters{ProductID: productID}, nil)
}

// sweep walks the matching notifications in cursor batches. Each owner's slice of a batch is
// reloaded and reconciled under that owner's lock; owners busy elsewhere are skipped.
// A non-nil sweepLock is extended after every batch and the sweep stops once it is lost.
func (uc *notificationUseCase) sweep(ctx context.Context, filters dto.NotificationFilters, sweepLock *heldLock) (*dto.ReconcileResult, error) {
	result := &dto.ReconcileResult{}
	stock := map[string]float64{}
	filters.Limit = uc.batchSize

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		batch, err := uc.repo.FindAll(ctx, &filters)
		if err != nil {
			uc.logger.Error("notification sweep aborted", zap.Error(err))
			return result, fetchError(err)
		}

		for _, group := range groupByUser(batch) {
			held, ok := uc.lock(ctx, userLockKeyPrefix+group[0].UserID)
			if !ok {
				result.Skipped += len(group)
				continue
			}
			fresh, failed := uc.reload(ctx, group)
			result.Checked += failed
			result.Failed += failed
			result.Add(uc.reconcile(ctx, fresh, stock))
			held.release(ctx)
		}

		if len(batch) < filters.Limit {
			break
		}
		filters.Cursor = batch[len(batch)-1].ID

		if sweepLock != nil && !sweepLock.extend(ctx) {
			uc.logger.Warn("sweep lock lost, stopping early", zap.String("cursor", filters.Cursor))
			break
		}
	}

	if result.Flipped > 0 || result.Failed > 0 {
		uc.logger.Info("notification sweep finished",
			zap.String("product_id", filters.ProductID),
			zap.Int("checked", result.Checked),
			zap.Int("flipped", result.Flipped),
			zap.Int("failed", result.Failed),
			zap.Int("skipped", result.Skipped),
		)
	}
	return result, nil
}

// reconcile checks each notification against live stock in order, persisting flips in place.
// Failures are logged and skipped; nothing is retried or rolled back.
func (uc *notificationUseCase) reconcile(ctx context.Context, list []model.ProductNotification, stock map[string]float64) dto.ReconcileResult {
	var res dto.ReconcileResult
	for i := range list {
		n := &list[i]
		res.Checked++

		if !n.RequestStatus.Valid() {
			uc.logger.Warn("skipping notification with unknown status",
				zap.String("notification_id", n.ID),
				zap.String("status", string(n.RequestStatus)),
			)
			res.Failed++
			continue
		}

		qty, err := uc.stockOf(ctx, n.ProductID, stock)
		if err != nil {
			uc.logger.Warn("skipping notification, stock unavailable",
				zap.String("notification_id", n.ID),
				zap.String("product_id", n.ProductID),
				zap.Error(err),
			)
			res.Failed++
			continue
		}

		prev := *n
		if !n.Reconcile(qty, uc.now()) {
			continue
		}
		if err := uc.repo.UpdateStatus(ctx, n); err != nil {
			uc.logger.Warn("failed to persist notification status",
				zap.String("notification_id", n.ID),
				zap.String("status", string(n.RequestStatus)),
				zap.Error(err),
			)
			*n = prev
			res.Failed++
			continue
		}

		res.Flipped++
		uc.publishStatusChanged(ctx, n, prev.RequestStatus)
	}
	return res
}

// stockOf memoizes product stock for the duration of one pass.
func (uc *notificationUseCase) stockOf(ctx context.Context, productID string, memo map[string]float64) (float64, error) {
	if qty, ok := memo[productID]; ok {
		return qty, nil
	}
	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, errProductMissing
	}
	qty := float64(p.StockQuantity)
	memo[productID] = qty
	return qty, nil
}

// reload rereads each notification of a batch slice so the pass works on current state.
// Deleted notifications are dropped; read errors are logged and counted.
func (uc *notificationUseCase) reload(ctx context.Context, group []model.ProductNotification) ([]model.ProductNotification, int) {
	fresh := make([]model.ProductNotification, 0, len(group))
	failed := 0
	for _, n := range group {
		cur, err := uc.repo.FindByID(ctx, n.ID)
		if err != nil {
			uc.logger.Warn("failed to reload notification", zap.String("notification_id", n.ID), zap.Error(err))
			failed++
			continue
		}
		if cur != nil {
			fresh = append(fresh, *cur)
		}
	}
	return fresh, failed
}

// heldLock is a lock taken by this process. A zero token means the pass runs unguarded.
type heldLock struct {
	uc    *notificationUseCase
	key   string
	token string
}

// lock takes key for this process. Without a locker, or when redis errors, the pass runs unguarded.
func (uc *notificationUseCase) lock(ctx context.Context, key string) (*heldLock, bool) {
	if uc.locker == nil {
		return &heldLock{uc: uc, key: key}, true
	}

	token := uuid.New().String()
	ok, err := uc.locker.AcquireLock(ctx, key, token, uc.lockTTL)
	if err != nil {
		uc.logger.Warn("lock unavailable, continuing without it", zap.String("key", key), zap.Error(err))
		return &heldLock{uc: uc, key: key}, true
	}
	if !ok {
		return nil, false
	}
	return &heldLock{uc: uc, key: key, token: token}, true
}

func (l *heldLock) release(ctx context.Context) {
	if l.token == "" {
		return
	}
	if err := l.uc.locker.ReleaseLock(context.WithoutCancel(ctx), l.key, l.token); err != nil {
		l.uc.logger.Warn("failed to release lock", zap.String("key", l.key), zap.Error(err))
	}
}

// extend renews the TTL and reports whether the lock is still ours. Redis errors keep going.
func (l *heldLock) extend(ctx context.Context) bool {
	if l.token == "" {
		return true
	}
	ok, err := l.uc.locker.ExtendLock(ctx, l.key, l.token, l.uc.lockTTL)
	if err != nil {
		l.uc.logger.Warn("failed to extend lock", zap.String("key", l.key), zap.Error(err))
		return true
	}
	return ok
}

// buildList derives the display view: notified entries only, first one per product wins.
func buildList(list []model.ProductNotification) *dto.NotificationList {
	notified := make([]model.ProductNotification, 0)
	seen := map[string]bool{}
	for _, n := range list {
		if n.RequestStatus != model.StatusNotified || seen[n.ProductID] {
			continue
		}
		seen[n.ProductID] = true
		notified = append(notified, n)
	}

	if list == nil {
		list = []model.ProductNotification{}
	}
	return &dto.NotificationList{
		Notifications: list,
		Notified:      notified,
		NotifiedCount: len(notified),
	}
}

// groupByUser splits batch into per-owner runs, keeping first-seen owner order.
func groupByUser(batch []model.ProductNotification) [][]model.ProductNotification {
	index := map[string]int{}
	var groups [][]model.ProductNotification
	for _, n := range batch {
		i, ok := index[n.UserID]
		if !ok {
			i = len(groups)
			index[n.UserID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], n)
	}
	return groups
}

func fetchError(err error) error {
	return apperror.Wrap(err, ErrFetchNotifications.Code, ErrFetchNotifications.MessageID, ErrFetchNotifications.Message)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation(err.Error())
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return apperror.Validation("invalid notification request").WithDetails(fields)
}
