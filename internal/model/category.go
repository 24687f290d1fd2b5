package model

// Vocabularies of the synthetic dataset.
var (
	Genders           = []string{"Male", "Female"}
	HealthStatuses    = []string{"Excellent", "Good", "Fair", "Poor"}
	MaritalStatuses   = []string{"Single", "Married", "Divorced", "Widowed"}
	InsuranceTypes    = []string{"None", "Term Life", "Whole Life", "ULIP", "Endowment", "Health Insurance"}
	ClaimCategories   = []string{"No Claims", "1 Claim", "2 Claims", "3+ Claims"}
	FamilyRelations   = []string{"Spouse", "Child", "Parent", "Sibling"}
	HealthStatusProbs = []float64{0.3, 0.4, 0.2, 0.1}
)

// Labels of the inference encoder table and the rule tables.
const (
	Male   = "Male"
	Female = "Female"

	Good    = "Good"
	Average = "Average"
	Poor    = "Poor"

	Single   = "Single"
	Married  = "Married"
	Divorced = "Divorced"

	NoClaims   = "No Claims"
	LowClaims  = "Low Claims"
	HighClaims = "High Claims"
)

// DefaultCategories is the fixed encoder table used for inference.
func DefaultCategories() map[Column][]string {
	return map[Column][]string{
		Gender:        {Male, Female},
		HealthStatus:  {Good, Average, Poor},
		MaritalStatus: {Single, Married, Divorced},
		ClaimHistory:  {NoClaims, LowClaims, HighClaims},
	}
}
