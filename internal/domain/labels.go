package domain

// NullSentinel replaces nil properties on graph nodes so every node of a label carries the
// same property keys.
const NullSentinel = "__NULL__"

const (
	LabelTenant       = "Tenant"
	LabelUser         = "User"
	LabelUserEntity   = "UserEntity"
	LabelUserFund     = "UserFund"
	LabelSubscription = "Subscription"
	LabelNAV          = "NAV"
	LabelMovements    = "Movements"
)

const (
	RelBelongsTo       = "BELONGS_TO"
	RelManages         = "MANAGES"
	RelInvestedIn      = "INVESTED_IN"
	RelHasSubscription = "HAS_SUBSCRIPTION"
	RelHasNAV          = "HAS_NAV"
	RelHasMovements    = "HAS_MOVEMENTS"
	RelInterest        = "INTEREST"
)

var NodeLabels = []string{
	LabelTenant,
	LabelUser,
	LabelUserEntity,
	LabelUserFund,
	LabelSubscription,
	LabelNAV,
	LabelMovements,
}

var RelationshipTypes = []string{
	RelBelongsTo,
	RelManages,
	RelInvestedIn,
	RelHasSubscription,
	RelHasNAV,
	RelHasMovements,
	RelInterest,
}

// Movement sources: the two relational tables folded into one Movements node.
const (
	SourceMovements    = "movements"
	SourceTransactions = "transactions"
	SourceNAV          = "navs"
)
