package models

import "smartoffice/internal/models"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type AddRuleRequest struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Type             models.RuleType  `json:"type"`
	Condition        models.Condition `json:"condition"`
	Action           string           `json:"action"`
	ActionValue      string           `json:"actionValue"`
	Priority         string           `json:"priority"`
	Enabled          *bool            `json:"enabled"`
	SendNotification bool             `json:"sendNotification"`
}

// UpdateRuleRequest carries a partial edit; nil fields keep their value.
type UpdateRuleRequest struct {
	Name             *string           `json:"name"`
	Description      *string           `json:"description"`
	Type             *models.RuleType  `json:"type"`
	Condition        *models.Condition `json:"condition"`
	Action           *string           `json:"action"`
	ActionValue      *string           `json:"actionValue"`
	Priority         *string           `json:"priority"`
	Enabled          *bool             `json:"enabled"`
	SendNotification *bool             `json:"sendNotification"`
}

type ImportRulesRequest struct {
	Rules []models.Rule `json:"rules"`
}

type SensorUpdateRequest struct {
	Value *float64 `json:"value" binding:"required"`
}
