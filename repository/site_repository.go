package repository

import (
	"context"

	"github.com/georgmattin/kristlinilehekulg/apperrors"
	"github.com/georgmattin/kristlinilehekulg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiteRepository backs the optional site features. The newsletter and
// social-link tables may not exist on every deployment; a missing relation
// degrades to empty/default results instead of an error.
type SiteRepository interface {
	Subscribe(ctx context.Context, email string) error
	ListSocialLinks(ctx context.Context) ([]*models.SocialMediaLink, error)
	CreateFreeDownload(ctx context.Context, record *models.FreeDownload) error
}

type gormSiteRepo struct {
	db *gorm.DB
}

func NewGormSiteRepo(db *gorm.DB) SiteRepository {
	return &gormSiteRepo{db: db}
}

func (r *gormSiteRepo) Subscribe(ctx context.Context, email string) error {
	sub := models.NewsletterSubscriber{Email: email, Status: "subscribed"}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(&sub).Error
	if err != nil {
		err = classify(err)
		if apperrors.IsDuplicate(err) || apperrors.IsMissingRelation(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *gormSiteRepo) ListSocialLinks(ctx context.Context) ([]*models.SocialMediaLink, error) {
	var links []*models.SocialMediaLink
	if err := r.db.WithContext(ctx).Order("platform ASC").Find(&links).Error; err != nil {
		err = classify(err)
		if apperrors.IsMissingRelation(err) {
			return []*models.SocialMediaLink{}, nil
		}
		return nil, err
	}
	return links, nil
}

func (r *gormSiteRepo) CreateFreeDownload(ctx context.Context, record *models.FreeDownload) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return classify(err)
	}
	return nil
}
