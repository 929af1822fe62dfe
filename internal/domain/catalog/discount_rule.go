package catalog

import (
	"github.com/google/uuid"
	"github.com/quickserve/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RuleKind identifies the discount computation class
type RuleKind string

const (
	// RuleKindSimple applies a flat percentage while active
	RuleKindSimple RuleKind = "simple"
	// RuleKindQuantity discounts every full group of RequiredQuantity units
	RuleKindQuantity RuleKind = "quantity"
	// RuleKindCrossPromotion discounts the target combo when the trigger
	// combo is present in the same cart
	RuleKindCrossPromotion RuleKind = "cross_promotion"
)

// TemporalKind identifies how a rule's temporal condition is evaluated
type TemporalKind string

const (
	// TemporalKindWeekday activates on a weekday (0=Sunday .. 6=Saturday)
	TemporalKindWeekday TemporalKind = "weekday"
	// TemporalKindDate activates on a single ISO calendar date
	TemporalKindDate TemporalKind = "date"
)

// RuleScope identifies what a rule applies to
type RuleScope string

const (
	RuleScopeOrder RuleScope = "order"
	RuleScopeCombo RuleScope = "combo"
)

// DiscountRule is a promotional rule declared against a combo. Kind-specific
// fields are only meaningful for their kind: RequiredQuantity and
// DiscountedQuantity for quantity rules, TriggerComboID and TargetComboID
// for cross-promotion rules (trigger may equal target, modeling
// "buy 2 get 1").
type DiscountRule struct {
	shared.BaseEntity
	ComboID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind         RuleKind        `gorm:"type:varchar(20);not null"`
	Percentage   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TemporalKind TemporalKind    `gorm:"type:varchar(10);not null"`
	Weekday      int             `gorm:"not null;default:0"`  // meaningful when TemporalKind is weekday
	Date         string          `gorm:"type:varchar(10)"`    // "2006-01-02", meaningful when TemporalKind is date
	StartTime    string          `gorm:"type:varchar(5)"`     // "15:04", empty means no time window
	EndTime      string          `gorm:"type:varchar(5)"`
	Scope        RuleScope       `gorm:"type:varchar(10);not null;default:'combo'"`

	RequiredQuantity   int `gorm:"not null;default:0"`
	DiscountedQuantity int `gorm:"not null;default:0"`

	TriggerComboID *uuid.UUID `gorm:"type:uuid"`
	TargetComboID  *uuid.UUID `gorm:"type:uuid"`

	Position int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DiscountRule) TableName() string {
	return "discount_rules"
}

// HasTimeRange returns true when the rule restricts the time of day
func (r *DiscountRule) HasTimeRange() bool {
	return r.StartTime != "" && r.EndTime != ""
}

// ValidatePercentage rejects percentages outside (0, 100]. The check runs
// at computation time so a malformed authored rule surfaces the moment it
// would influence a price.
func (r *DiscountRule) ValidatePercentage() error {
	if !r.Percentage.IsPositive() || r.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError(
			"discount percentage must be in (0, 100], got " + r.Percentage.String())
	}
	return nil
}
