package usecase

import (
	"context"
	"errors"
	"strings"

	"main/dto"
	"main/model"
	"main/services"

	"go.mongodb.org/mongo-driver/bson"
)

type TemplateStore interface {
	CreateTemplate(ctx context.Context, template *model.Template) (string, error)
	GetTemplate(ctx context.Context, templateID, userID string) (*model.Template, error)
	UpdateTemplate(ctx context.Context, templateID, userID string, fields bson.M) error
	IncrementUsage(ctx context.Context, templateID, userID string) error
	DeleteTemplate(ctx context.Context, templateID, userID string) error
	ListByOwner(ctx context.Context, userID string) ([]*model.Template, error)
}

type TemplatesService struct {
	TemplateRepo TemplateStore

	// Cache is optional; nil disables the quick-panel list cache.
	Cache *services.ListCache
}

// GetUserTemplates serves the sidebar quick-insert panel, preferring the
// cached list when it is fresh.
func (svc *TemplatesService) GetUserTemplates(ctx context.Context, userID string) ([]*model.Template, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	if svc.Cache != nil {
		if templates, hit := svc.Cache.GetTemplates(ctx, userID); hit {
			return templates, nil
		}
	}

	templates, err := svc.TemplateRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	if svc.Cache != nil {
		svc.Cache.SetTemplates(ctx, userID, templates)
	}
	return templates, nil
}

func (svc *TemplatesService) CreateTemplate(ctx context.Context, userID string, req dto.CreateTemplateRequest) (*model.Template, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.New("template title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.New("template content is required")
	}

	template := &model.Template{
		UserID:   userID,
		Title:    title,
		Content:  req.Content,
		Category: strings.TrimSpace(req.Category),
		IsPublic: req.IsPublic,
	}

	if _, err := svc.TemplateRepo.CreateTemplate(ctx, template); err != nil {
		return nil, err
	}

	svc.invalidate(ctx, userID)
	return template, nil
}

func (svc *TemplatesService) UpdateTemplate(ctx context.Context, templateID, userID string, req dto.UpdateTemplateRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return errors.New("template title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return errors.New("template content is required")
	}

	fields := bson.M{
		"title":     title,
		"content":   req.Content,
		"category":  strings.TrimSpace(req.Category),
		"is_public": req.IsPublic,
	}

	if err := svc.TemplateRepo.UpdateTemplate(ctx, templateID, userID, fields); err != nil {
		return err
	}

	svc.invalidate(ctx, userID)
	return nil
}

func (svc *TemplatesService) DeleteTemplate(ctx context.Context, templateID, userID string) error {
	if err := svc.TemplateRepo.DeleteTemplate(ctx, templateID, userID); err != nil {
		return err
	}

	svc.invalidate(ctx, userID)
	return nil
}

// UseTemplate records a quick-insert and returns the template content.
func (svc *TemplatesService) UseTemplate(ctx context.Context, templateID, userID string) (*model.Template, error) {
	template, err := svc.TemplateRepo.GetTemplate(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, errors.New("template not found")
	}

	if err := svc.TemplateRepo.IncrementUsage(ctx, templateID, userID); err != nil {
		return nil, err
	}
	template.UsageCount++

	svc.invalidate(ctx, userID)
	return template, nil
}

func (svc *TemplatesService) invalidate(ctx context.Context, userID string) {
	if svc.Cache != nil {
		svc.Cache.InvalidateTemplates(ctx, userID)
	}
}
