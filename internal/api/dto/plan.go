package dto

import (
	"context"

	"github.com/deskhive/deskhive/internal/domain/plan"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/deskhive/deskhive/internal/validator"
	"github.com/shopspring/decimal"
)

type CreatePlanRequest struct {
	Name               string          `json:"name" validate:"required"`
	LookupKey          string          `json:"lookup_key" validate:"required"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price" validate:"required"`
	Currency           string          `json:"currency" validate:"required,len=3"`
	DurationDays       int             `json:"duration_days" validate:"required,min=1"`
	InstallmentAllowed bool            `json:"installment_allowed"`
	InstallmentMonths  int             `json:"installment_months" validate:"omitempty,min=1"`
	InstallmentAmount  decimal.Decimal `json:"installment_amount"`
	LockerIncluded     bool            `json:"locker_included"`
	DedicatedSupport   bool            `json:"dedicated_support"`
	MeetingRoomHours   int             `json:"meeting_room_hours" validate:"omitempty,min=0"`
	PrintPageLimit     int             `json:"print_page_limit" validate:"omitempty,min=0"`
}

func (r *CreatePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreatePlanRequest) ToPlan(ctx context.Context) *plan.Plan {
	return &plan.Plan{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:               r.Name,
		LookupKey:          r.LookupKey,
		Description:        r.Description,
		Price:              r.Price,
		Currency:           r.Currency,
		DurationDays:       r.DurationDays,
		InstallmentAllowed: r.InstallmentAllowed,
		InstallmentMonths:  r.InstallmentMonths,
		InstallmentAmount:  r.InstallmentAmount,
		LockerIncluded:     r.LockerIncluded,
		DedicatedSupport:   r.DedicatedSupport,
		MeetingRoomHours:   r.MeetingRoomHours,
		PrintPageLimit:     r.PrintPageLimit,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
}

type UpdatePlanRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdatePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type PlanResponse struct {
	*plan.Plan

	// Tier is the semantic tier name derived from the plan duration
	Tier types.PlanTier `json:"tier,omitempty"`
}

// NewPlanResponse annotates the plan with its tier name when the duration
// is canonical.
func NewPlanResponse(p *plan.Plan, tiers plan.TierList) *PlanResponse {
	resp := &PlanResponse{Plan: p}
	if tier, ok := tiers.TierOf(p.DurationDays); ok {
		resp.Tier = tier
	}
	return resp
}

type ListPlansResponse struct {
	Items []*PlanResponse `json:"items"`
	Total int             `json:"total"`
}
