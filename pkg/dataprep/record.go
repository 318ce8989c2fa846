package dataprep

import "slices"

// Numeric field names as they appear in the reference dataset.
const (
	FieldSeniorCitizen  = "SeniorCitizen"
	FieldMonthlyCharges = "MonthlyCharges"
	FieldTotalCharges   = "TotalCharges"
	FieldTenure         = "tenure"
)

// categoricalFields is the order in which indicator columns appear in a feature vector.
var categoricalFields = [...]string{
	"gender",
	"Partner",
	"Dependents",
	"PhoneService",
	"MultipleLines",
	"InternetService",
	"OnlineSecurity",
	"OnlineBackup",
	"DeviceProtection",
	"TechSupport",
	"StreamingTV",
	"StreamingMovies",
	"Contract",
	"PaperlessBilling",
	"PaymentMethod",
}

// numericFields are passed through to the feature vector unchanged. Raw tenure is
// not among them; it is replaced by its tenure-group indicators.
var numericFields = [...]string{FieldSeniorCitizen, FieldMonthlyCharges, FieldTotalCharges}

// formFieldNames maps the positional names posted by the original input form.
var formFieldNames = map[string]string{
	"query1":  FieldSeniorCitizen,
	"query2":  FieldMonthlyCharges,
	"query3":  FieldTotalCharges,
	"query4":  "gender",
	"query5":  "Partner",
	"query6":  "Dependents",
	"query7":  "PhoneService",
	"query8":  "MultipleLines",
	"query9":  "InternetService",
	"query10": "OnlineSecurity",
	"query11": "OnlineBackup",
	"query12": "DeviceProtection",
	"query13": "TechSupport",
	"query14": "StreamingTV",
	"query15": "StreamingMovies",
	"query16": "Contract",
	"query17": "PaperlessBilling",
	"query18": "PaymentMethod",
	"query19": FieldTenure,
}

// CategoricalFields returns the categorical field names in vector order.
func CategoricalFields() []string { return slices.Clone(categoricalFields[:]) }

// NumericFields returns the pass-through numeric field names in vector order.
func NumericFields() []string { return slices.Clone(numericFields[:]) }

// FieldForFormName resolves a positional form name (query1..query19) to a field name.
func FieldForFormName(name string) (string, bool) {
	f, ok := formFieldNames[name]
	return f, ok
}

// RawRecord is a single customer after type coercion.
type RawRecord struct {
	SeniorCitizen  int
	MonthlyCharges float64
	TotalCharges   float64
	Tenure         int
	// Categorical holds the 15 categorical fields keyed by field name.
	Categorical map[string]string
}

// Numeric returns the pass-through numeric values in vector order.
func (r RawRecord) Numeric() []float64 {
	return []float64{float64(r.SeniorCitizen), r.MonthlyCharges, r.TotalCharges}
}
