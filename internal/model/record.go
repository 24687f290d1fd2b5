package model

// Column is the name of a dataset column.
type Column string

const (
	Age              Column = "Age"
	Gender           Column = "Gender"
	HealthStatus     Column = "Health_Status"
	MaritalStatus    Column = "Marital_Status"
	CurrentInsurance Column = "Current_Insurance"
	PreviousPolicies Column = "Previous_Policies"
	ClaimHistory     Column = "Claim_History"
	AnnualIncome     Column = "Annual_Income"
	Premium          Column = "Premium"
	SumAssured       Column = "Sum_Assured"
	FamilyDetails    Column = "Family_Details"

	// derived columns
	IncomeToAge     Column = "Income_to_Age"
	PremiumToIncome Column = "Premium_to_Income"
)

// Header is the column order of the dataset files.
var Header = []Column{
	Age,
	Gender,
	HealthStatus,
	MaritalStatus,
	CurrentInsurance,
	PreviousPolicies,
	ClaimHistory,
	AnnualIncome,
	Premium,
	SumAssured,
	FamilyDetails,
}

// CategoricalColumns are the label encoded columns, in feature order.
var CategoricalColumns = []Column{
	Gender,
	HealthStatus,
	MaritalStatus,
	ClaimHistory,
}

// FeatureNames is the fixed order of the model input vector.
var FeatureNames = []Column{
	Age,
	AnnualIncome,
	SumAssured,
	IncomeToAge,
	PremiumToIncome,
	Gender,
	HealthStatus,
	MaritalStatus,
	ClaimHistory,
}

// ScaledColumns are the numeric features that go through the scaler.
var ScaledColumns = []Column{
	Age,
	AnnualIncome,
	SumAssured,
	IncomeToAge,
	PremiumToIncome,
}

// Record is a row of the historical policy dataset.
// AnnualIncome is NaN when missing.
type Record struct {
	Age              int
	Gender           string
	HealthStatus     string
	MaritalStatus    string
	CurrentInsurance string
	PreviousPolicies int
	ClaimHistory     string
	AnnualIncome     float64
	Premium          float64
	SumAssured       float64
	FamilyDetails    string
}

// Category returns the value of the given categorical column.
func (r Record) Category(c Column) string {
	switch c {
	case Gender:
		return r.Gender
	case HealthStatus:
		return r.HealthStatus
	case MaritalStatus:
		return r.MaritalStatus
	case ClaimHistory:
		return r.ClaimHistory
	case CurrentInsurance:
		return r.CurrentInsurance
	}
	return ""
}

// Names converts the columns to plain strings.
func Names(cc []Column) []string {
	ss := make([]string, len(cc))
	for i, c := range cc {
		ss[i] = string(c)
	}
	return ss
}
