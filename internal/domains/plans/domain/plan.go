package domain

import "fmt"

// Plan identifies a subscription tier.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanBasic   Plan = "299"
	PlanPlus    Plan = "699"
	PlanSupreme Plan = "1499"
)

// CatalogUnlimited marks a plan without a catalog size ceiling.
const CatalogUnlimited = -1

// CapabilitySet is the concrete set of feature toggles a plan grants.
type CapabilitySet struct {
	UpdateQuantity bool
	MaxCatalogSize int
	BulkUpload     bool
	LowStockAlert  bool
}

// Unlimited reports whether the plan has no catalog size ceiling.
func (c CapabilitySet) Unlimited() bool {
	return c.MaxCatalogSize == CatalogUnlimited
}

var capabilities = map[Plan]CapabilitySet{
	PlanFree:    {UpdateQuantity: false, MaxCatalogSize: 10, BulkUpload: false, LowStockAlert: false},
	PlanBasic:   {UpdateQuantity: true, MaxCatalogSize: 50, BulkUpload: true, LowStockAlert: false},
	PlanPlus:    {UpdateQuantity: true, MaxCatalogSize: 100, BulkUpload: true, LowStockAlert: true},
	PlanSupreme: {UpdateQuantity: true, MaxCatalogSize: CatalogUnlimited, BulkUpload: true, LowStockAlert: true},
}

// Resolve maps a raw plan identifier to a known Plan. Unknown or empty
// identifiers resolve to the free tier, never to an elevated one.
func Resolve(raw string) Plan {
	plan := Plan(raw)
	if _, ok := capabilities[plan]; !ok {
		return PlanFree
	}
	return plan
}

// Capabilities returns the capability set granted by the plan.
func Capabilities(plan Plan) CapabilitySet {
	if set, ok := capabilities[plan]; ok {
		return set
	}
	return capabilities[PlanFree]
}

// Operation names a plan-gated engine operation.
type Operation string

const (
	OpUpdateStockQuantity Operation = "update-stock-quantity"
	OpRegisterBeyondLimit Operation = "register-beyond-limit"
	OpBulkUpload          Operation = "bulk-upload"
	OpLowStockAlert       Operation = "low-stock-alert"
)

// RefusalError reports that the current plan does not grant a capability.
type RefusalError struct {
	Plan       Plan
	Capability Operation
	Reason     string
}

func (e *RefusalError) Error() string {
	return fmt.Sprintf("plan %q does not allow %s: %s", e.Plan, e.Capability, e.Reason)
}

// Authorize checks a gated operation against the plan's capability set.
// It is a pure function: callers must invoke it before any state mutation
// or gateway call and stop on a non-nil result.
func Authorize(plan Plan, op Operation) error {
	set := Capabilities(plan)
	switch op {
	case OpUpdateStockQuantity:
		if !set.UpdateQuantity {
			return &RefusalError{Plan: plan, Capability: op, Reason: "updating stock quantity is a premium feature"}
		}
	case OpRegisterBeyondLimit:
		if !set.Unlimited() {
			return &RefusalError{
				Plan:       plan,
				Capability: op,
				Reason:     fmt.Sprintf("plan limit of %d products has been reached", set.MaxCatalogSize),
			}
		}
	case OpBulkUpload:
		if !set.BulkUpload {
			return &RefusalError{Plan: plan, Capability: op, Reason: "bulk product registration is a premium feature"}
		}
	case OpLowStockAlert:
		if !set.LowStockAlert {
			return &RefusalError{Plan: plan, Capability: op, Reason: "low stock alerts are a premium feature"}
		}
	default:
		return &RefusalError{Plan: plan, Capability: op, Reason: "unknown gated operation"}
	}
	return nil
}

// AuthorizeRegister checks the catalog size ceiling before registering a new
// product. Stock-update mode is exempt from the ceiling.
func AuthorizeRegister(plan Plan, catalogSize int, updateMode bool) error {
	if updateMode {
		return nil
	}
	set := Capabilities(plan)
	if set.Unlimited() || catalogSize < set.MaxCatalogSize {
		return nil
	}
	return &RefusalError{
		Plan:       plan,
		Capability: OpRegisterBeyondLimit,
		Reason:     fmt.Sprintf("plan limit of %d products has been reached", set.MaxCatalogSize),
	}
}
