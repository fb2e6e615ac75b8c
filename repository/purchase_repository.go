package repository

import (
	"context"
	"time"

	"github.com/georgmattin/kristlinilehekulg/apperrors"
	"github.com/georgmattin/kristlinilehekulg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository interface {
	// CreateIfAbsent inserts a purchase unless one already exists for the
	// same Stripe session. Returns true when the row was actually created,
	// false on a duplicate delivery.
	CreateIfAbsent(ctx context.Context, purchase *models.Purchase) (bool, error)

	// TransitionByPaymentIntent moves a purchase out of the completed state.
	// Returns false when no matching row was in a transitionable state.
	TransitionByPaymentIntent(ctx context.Context, paymentIntentID, toStatus string) (bool, error)

	// MarkDisputedBySession marks a purchase disputed. Disputes can arrive
	// after payment confirmation, so both pre-dispute states qualify.
	MarkDisputedBySession(ctx context.Context, sessionID string) (bool, error)

	// GetRedeemableBySession loads a purchase (with its product) eligible
	// for download redemption.
	GetRedeemableBySession(ctx context.Context, sessionID string) (*models.Purchase, error)

	// ConsumeDownload increments the download counter, bounded by the
	// purchase's maximum, as one conditional UPDATE. Returns false when the
	// allowance is already used up.
	ConsumeDownload(ctx context.Context, id uuid.UUID) (bool, error)
}

type gormPurchaseRepo struct {
	db *gorm.DB
}

func NewGormPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &gormPurchaseRepo{db: db}
}

func (r *gormPurchaseRepo) CreateIfAbsent(ctx context.Context, purchase *models.Purchase) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_session_id"}},
			DoNothing: true,
		}).
		Create(purchase)
	if res.Error != nil {
		err := classify(res.Error)
		if apperrors.IsDuplicate(err) {
			return false, nil
		}
		return false, err
	}
	return res.RowsAffected > 0, nil
}

func (r *gormPurchaseRepo) TransitionByPaymentIntent(ctx context.Context, paymentIntentID, toStatus string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("stripe_payment_intent_id = ? AND status = ?", paymentIntentID, models.PurchaseStatusCompleted).
		Updates(map[string]interface{}{
			"status":     toStatus,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, classify(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *gormPurchaseRepo) MarkDisputedBySession(ctx context.Context, sessionID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("stripe_session_id = ? AND status IN ?", sessionID,
			[]string{models.PurchaseStatusCompleted, models.PurchaseStatusPaymentConfirmed}).
		Updates(map[string]interface{}{
			"status":     models.PurchaseStatusDisputed,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, classify(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *gormPurchaseRepo) GetRedeemableBySession(ctx context.Context, sessionID string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("stripe_session_id = ? AND status IN ?", sessionID,
			[]string{models.PurchaseStatusCompleted, models.PurchaseStatusPaymentConfirmed}).
		First(&purchase).Error
	if err != nil {
		return nil, classify(err)
	}
	return &purchase, nil
}

func (r *gormPurchaseRepo) ConsumeDownload(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("id = ? AND download_count < max_downloads", id).
		Updates(map[string]interface{}{
			"download_count": gorm.Expr("download_count + 1"),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return false, classify(res.Error)
	}
	return res.RowsAffected > 0, nil
}
