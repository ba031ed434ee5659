package domain

import "time"

type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID                  string
	TenantID            string
	Email               *string
	FirstName           *string
	LastName            *string
	Phone               *string
	Role                *string
	IsActive            *bool
	NotifyEmail         *bool
	NotifySMS           *bool
	NotifyCapitalCalls  *bool
	NotifyDistributions *bool
	NotifyDocuments     *bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// UserEntity is an investment vehicle (LLC, IRA, trust). Unique per (TenantID, InvestmentEntity).
type UserEntity struct {
	ID               string
	TenantID         string
	InvestmentEntity string
	EntityAlias      *string
	EntityType       *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UserFund carries a fund's static terms. FundName is not unique within a tenant; ID is
// the only identity.
type UserFund struct {
	ID                  string
	TenantID            string
	FundName            string
	FundType            *string
	FundStage           *string
	Strategy            *string
	Sector              *string
	Geography           *string
	Currency            *string
	VintageYear         *string
	ManagerName         *string
	Administrator       *string
	Auditor             *string
	LegalCounsel        *string
	Domicile            *string
	Status              *string
	TargetSize          *string
	FundSize            *string
	ManagementFee       *string
	CarriedInterest     *string
	HurdleRate          *string
	GPCommitment        *string
	LockupPeriod        *string
	RedemptionFrequency *string
	NoticePeriod        *string
	InvestmentPeriod    *string
	TermYears           *string
	InceptionDate       *string
	FirstCloseDate      *string
	FinalCloseDate      *string
	Notes               *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Subscription struct {
	ID               string
	TenantID         string
	FundName         string
	InvestmentEntity string
	AsOfDate         Date
	CommitmentAmount *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SeriesKey identifies one consolidated time-series node.
type SeriesKey struct {
	FundName         string
	InvestmentEntity string
	TenantID         string
}

// NAVRow is one per-date valuation row.
type NAVRow struct {
	Key       SeriesKey
	AsOfDate  Date
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MovementRow is one cash-flow row from either the movements or the transactions table.
type MovementRow struct {
	Key       SeriesKey
	AsOfDate  Date
	Source    string
	Type      string
	Amount    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
