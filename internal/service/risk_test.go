package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
)

func TestGenerateRiskScore(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	inference := &inferenceStub{reply: "Tinggi: Pengeluaran bulanan melebihi pemasukan."}
	svc := newTestService(store, inference, limiterStub{allowed: true})

	if _, err := svc.Register(ctx, "u1", models.UserInput{FullName: "Budi", MonthlyIncome: money(5000000)}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.AddTransaction(ctx, "u1", models.TransactionInput{Type: models.TransactionIncome, Amount: money(5000000), Category: "gaji"}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if _, err := svc.AddTransaction(ctx, "u1", models.TransactionInput{Type: models.TransactionExpense, Amount: money(6000000), Category: "sewa"}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	score, err := svc.GenerateRiskScore(ctx, "u1")
	if err != nil {
		t.Fatalf("GenerateRiskScore: %v", err)
	}
	if score.RiskLevel != models.RiskHigh {
		t.Errorf("RiskLevel = %q, want High", score.RiskLevel)
	}
	if score.Explanation != "Pengeluaran bulanan melebihi pemasukan." {
		t.Errorf("Explanation = %q", score.Explanation)
	}
	if !score.GeneratedByAI {
		t.Error("GeneratedByAI should be set")
	}

	prompt := inference.lastPrompt()
	for _, want := range []string{"Rp5.000.000", "Rp6.000.000"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}

	if n := len(store.scores["u1"]); n != 1 {
		t.Fatalf("stored scores = %d, want 1", n)
	}
	latest, err := svc.LatestRiskScore(ctx, "u1")
	if err != nil {
		t.Fatalf("LatestRiskScore: %v", err)
	}
	if latest == nil || latest.ID != score.ID {
		t.Errorf("LatestRiskScore = %+v, want %+v", latest, score)
	}
}

func TestGenerateRiskScoreUnparseableReply(t *testing.T) {
	ctx := context.Background()
	svc, store := registeredService(t)
	svc.inference = &inferenceStub{reply: "I cannot decide on this one."}

	score, err := svc.GenerateRiskScore(ctx, "u1")
	if err != nil {
		t.Fatalf("GenerateRiskScore: %v", err)
	}
	if score.RiskLevel != models.RiskUnknown || score.Explanation != "I cannot decide on this one." {
		t.Errorf("unexpected score %+v", score)
	}
	if len(store.scores["u1"]) != 1 {
		t.Error("unknown assessments are still recorded")
	}
}

func TestGenerateRiskScoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("inference unavailable", func(t *testing.T) {
		svc, store := registeredService(t)
		svc.inference = &inferenceStub{err: apperror.New(apperror.KindInferenceUnavailable, "inference failed: timeout")}

		_, err := svc.GenerateRiskScore(ctx, "u1")
		if !errors.Is(err, apperror.ErrInferenceUnavailable) {
			t.Fatalf("expected inference unavailable, got %v", err)
		}
		if len(store.scores["u1"]) != 0 {
			t.Error("no score should be recorded when inference fails")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		inference := &inferenceStub{reply: "Low: fine"}
		svc := newTestService(newMemStore(), inference, nil)

		_, err := svc.GenerateRiskScore(ctx, "ghost")
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if len(inference.prompts) != 0 {
			t.Error("inference should not be called for unknown users")
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		svc, store := registeredService(t)
		inference := &inferenceStub{reply: "Low: fine"}
		svc.inference = inference
		svc.limiter = limiterStub{allowed: false}

		_, err := svc.GenerateRiskScore(ctx, "u1")
		if !errors.Is(err, apperror.ErrRateLimited) {
			t.Fatalf("expected rate limited, got %v", err)
		}
		if len(inference.prompts) != 0 || len(store.scores["u1"]) != 0 {
			t.Error("rate limited requests must not reach inference or storage")
		}
	})

	t.Run("limiter down fails open", func(t *testing.T) {
		svc, _ := registeredService(t)
		svc.inference = &inferenceStub{reply: "Low: fine"}
		svc.limiter = limiterStub{err: errors.New("redis: connection refused")}

		score, err := svc.GenerateRiskScore(ctx, "u1")
		if err != nil {
			t.Fatalf("GenerateRiskScore: %v", err)
		}
		if score.RiskLevel != models.RiskLow {
			t.Errorf("RiskLevel = %q, want Low", score.RiskLevel)
		}
	})
}

func TestLatestRiskScore(t *testing.T) {
	ctx := context.Background()
	svc, _ := registeredService(t)

	latest, err := svc.LatestRiskScore(ctx, "u1")
	if err != nil {
		t.Fatalf("LatestRiskScore: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected no score yet, got %+v", latest)
	}

	var recorded []*models.RiskScore
	for _, level := range []models.RiskLevel{models.RiskLow, models.RiskHigh, models.RiskMedium} {
		score, err := svc.RecordRiskScore(ctx, "u1", models.RiskAssessment{RiskLevel: level, Explanation: string(level)})
		if err != nil {
			t.Fatalf("RecordRiskScore: %v", err)
		}
		recorded = append(recorded, score)
	}

	latest, err = svc.LatestRiskScore(ctx, "u1")
	if err != nil {
		t.Fatalf("LatestRiskScore: %v", err)
	}
	if latest.ID != recorded[2].ID || latest.RiskLevel != models.RiskMedium {
		t.Errorf("LatestRiskScore = %+v, want the last recorded entry", latest)
	}

	history, err := svc.ListRiskScores(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("ListRiskScores: %v", err)
	}
	if len(history) != 2 || history[0].RiskLevel != models.RiskMedium || history[1].RiskLevel != models.RiskHigh {
		t.Errorf("ListRiskScores = %+v", history)
	}

	if _, err := svc.LatestRiskScore(ctx, "ghost"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown user: got %v", err)
	}
}
