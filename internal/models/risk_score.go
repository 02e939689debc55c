package models

import "time"

// RiskLevel is the qualitative risk label attached to a score
type RiskLevel string

const (
	RiskLow     RiskLevel = "Low"
	RiskMedium  RiskLevel = "Medium"
	RiskHigh    RiskLevel = "High"
	RiskUnknown RiskLevel = "Unknown"
)

// RiskAssessment is a classified model reply
type RiskAssessment struct {
	RiskLevel   RiskLevel `json:"risk_level"`
	Explanation string    `json:"explanation"`
}

// RiskScore is an immutable entry of a user's risk score history
type RiskScore struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	RiskLevel      RiskLevel `json:"risk_level"`
	Explanation    string    `json:"explanation"`
	GeneratedByAI  bool      `json:"generated_by_ai"`
	LastCalculated time.Time `json:"last_calculated"`
}
