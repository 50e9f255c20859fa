package usecase

import (
	"context"
	"errors"
	"io"

	"fanvault-console/pkg/apiclient"
	"fanvault-console/pkg/models"
	"fanvault-console/pkg/staging"
)

func (uc *artistUseCase) Draft() staging.DraftView {
	return uc.stager.View()
}

func (uc *artistUseCase) SetDraftDetails(title, genre string) staging.DraftView {
	return uc.stager.SetDetails(title, genre)
}

func (uc *artistUseCase) StageFile(ctx context.Context, kind staging.MediaKind, source staging.IntakeSource, name string, r io.Reader) (*staging.StagedFile, error) {
	return uc.stager.Stage(ctx, kind, source, name, r)
}

func (uc *artistUseCase) UnstageFile(ctx context.Context, kind staging.MediaKind) staging.DraftView {
	uc.stager.Unstage(ctx, kind)
	return uc.stager.View()
}

func (uc *artistUseCase) DiscardDraft(ctx context.Context) staging.DraftView {
	uc.stager.Release(ctx)
	return uc.stager.View()
}

// SubmitDraft sends the staged draft as one multipart upload. New content starts
// out pending, so only the history and the dashboard change.
func (uc *artistUseCase) SubmitDraft(ctx context.Context) (*models.Content, error) {
	result, err := uc.stager.Submit(ctx, func(ctx context.Context, body io.Reader, contentType string) (interface{}, error) {
		return uc.repo.Upload(ctx, body, contentType)
	})
	if err != nil {
		if !errors.Is(err, staging.ErrIncompleteDraft) && !errors.Is(err, staging.ErrSubmitInProgress) {
			uc.stager.FailWith(apiclient.Message(err, "Upload failed"))
			uc.logger.Warn("[UPLOAD] submission failed: %v", err)
		}
		return nil, err
	}

	uc.cache.Invalidate(keyHistory, false)
	uc.cache.Invalidate(keyDashboard, true)
	uc.cache.Invalidate(keyMe, true)

	content, _ := result.(*models.Content)
	if content != nil {
		uc.logger.Info("[UPLOAD] content %s submitted for review", content.ID)
	}
	return content, nil
}
