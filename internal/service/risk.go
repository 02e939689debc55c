package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	scopeRiskScore = "risk_score"
	scopeChat      = "chat"
)

type pipelineStage string

const (
	stageAggregating       pipelineStage = "aggregating"
	stagePrompting         pipelineStage = "prompting"
	stageAwaitingInference pipelineStage = "awaiting_inference"
	stageClassifying       pipelineStage = "classifying"
	stagePersisting        pipelineStage = "persisting"
	stageResponded         pipelineStage = "responded"
	stageFailed            pipelineStage = "failed"
)

func (s *Service) stage(userID string, stage pipelineStage) {
	s.log.WithFields(logrus.Fields{"user_id": userID, "stage": stage}).Debug("Risk pipeline transition")
}

func (s *Service) fail(userID string, from pipelineStage, err error) error {
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"stage":   stageFailed,
		"from":    from,
		"kind":    apperror.KindOf(err),
	}).WithError(err).Warn("Risk pipeline failed")
	return err
}

func (s *Service) checkRateLimit(ctx context.Context, scope, userID string) error {
	if s.limiter == nil {
		return nil
	}
	allowed, retryAfter, err := s.limiter.Allow(ctx, scope, userID)
	if err != nil {
		// Limiter outages do not block requests.
		s.log.WithError(err).WithField("scope", scope).Warn("Rate limiter unavailable")
		return nil
	}
	if !allowed {
		return apperror.New(apperror.KindRateLimited, fmt.Sprintf("too many requests, retry in %s", retryAfter))
	}
	return nil
}

// GenerateRiskScore runs aggregation, prompting, inference, classification and persistence
// for one user. There are no retries between stages.
func (s *Service) GenerateRiskScore(ctx context.Context, userID string) (*models.RiskScore, error) {
	if err := s.checkRateLimit(ctx, scopeRiskScore, userID); err != nil {
		return nil, err
	}

	s.stage(userID, stageAggregating)
	summary, err := s.FinancialSummary(ctx, userID)
	if err != nil {
		return nil, s.fail(userID, stageAggregating, err)
	}

	s.stage(userID, stagePrompting)
	prompt := BuildRiskPrompt(summary)

	s.stage(userID, stageAwaitingInference)
	reply, err := s.inference.Generate(ctx, prompt)
	if err != nil {
		return nil, s.fail(userID, stageAwaitingInference, err)
	}

	s.stage(userID, stageClassifying)
	assessment := Classify(reply)
	if assessment.RiskLevel == models.RiskUnknown {
		s.log.WithField("user_id", userID).Warn("Model reply did not match the risk format")
	}

	s.stage(userID, stagePersisting)
	score, err := s.RecordRiskScore(ctx, userID, assessment)
	if err != nil {
		return nil, s.fail(userID, stagePersisting, err)
	}

	s.stage(userID, stageResponded)
	s.log.WithFields(logrus.Fields{"user_id": userID, "risk_level": score.RiskLevel}).Info("Risk score generated")
	return score, nil
}

// RecordRiskScore appends an assessment to the user's history, stamped with the current time
func (s *Service) RecordRiskScore(ctx context.Context, userID string, assessment models.RiskAssessment) (*models.RiskScore, error) {
	score := &models.RiskScore{
		UserID:         userID,
		RiskLevel:      assessment.RiskLevel,
		Explanation:    assessment.Explanation,
		GeneratedByAI:  true,
		LastCalculated: s.now(),
	}
	if err := s.store.AppendRiskScore(ctx, score); err != nil {
		return nil, err
	}
	return score, nil
}

// LatestRiskScore returns nil without error when the user has never been scored
func (s *Service) LatestRiskScore(ctx context.Context, userID string) (*models.RiskScore, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.LatestRiskScore(ctx, userID)
}

func (s *Service) ListRiskScores(ctx context.Context, userID string, limit int) ([]models.RiskScore, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListRiskScores(ctx, userID, limit)
}
