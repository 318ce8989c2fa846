// Package pipelinetest provides a small reference dataset and model artifact for
// tests that need a working pipeline.
package pipelinetest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/model"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline"
)

// ReferenceCSV is a slice of the Telco customer dataset covering every vocabulary
// value of every categorical field.
const ReferenceCSV = `customerID,gender,SeniorCitizen,Partner,Dependents,tenure,PhoneService,MultipleLines,InternetService,OnlineSecurity,OnlineBackup,DeviceProtection,TechSupport,StreamingTV,StreamingMovies,Contract,PaperlessBilling,PaymentMethod,MonthlyCharges,TotalCharges,Churn
7590-VHVEG,Female,0,Yes,No,1,No,No phone service,DSL,No,Yes,No,No,No,No,Month-to-month,Yes,Electronic check,29.85,29.85,No
5575-GNVDE,Male,0,No,No,34,Yes,No,DSL,Yes,No,Yes,No,No,No,One year,No,Mailed check,56.95,1889.5,No
3668-QPYBK,Male,0,No,No,2,Yes,No,DSL,Yes,Yes,No,No,No,No,Month-to-month,Yes,Mailed check,53.85,108.15,Yes
7795-CFOCW,Male,0,No,No,45,No,No phone service,DSL,Yes,No,Yes,Yes,No,No,One year,No,Bank transfer (automatic),42.3,1840.75,No
9237-HQITU,Female,0,No,No,2,Yes,No,Fiber optic,No,No,No,No,No,No,Month-to-month,Yes,Electronic check,70.7,151.65,Yes
9305-CDSKC,Female,0,No,No,8,Yes,Yes,Fiber optic,No,No,Yes,No,Yes,Yes,Month-to-month,Yes,Electronic check,99.65,820.5,Yes
1452-KIOVK,Male,0,No,Yes,22,Yes,Yes,Fiber optic,No,Yes,No,No,Yes,No,Month-to-month,Yes,Credit card (automatic),89.1,1949.4,No
7892-POOKP,Female,0,Yes,No,28,Yes,Yes,Fiber optic,No,No,Yes,Yes,Yes,Yes,Month-to-month,Yes,Electronic check,104.8,3046.05,Yes
6388-TABGU,Male,0,No,Yes,62,Yes,No,DSL,Yes,Yes,No,No,No,No,One year,No,Bank transfer (automatic),56.15,3487.95,No
7469-LKBCI,Male,0,No,No,16,Yes,No,No,No internet service,No internet service,No internet service,No internet service,No internet service,No internet service,Two year,No,Credit card (automatic),18.95,326.8,No
9959-WOFKT,Male,1,No,Yes,71,Yes,Yes,Fiber optic,Yes,No,Yes,No,Yes,Yes,Two year,No,Bank transfer (automatic),106.7,7382.25,No
`

// Columns is the feature layout derived from ReferenceCSV.
var Columns = []string{
	"SeniorCitizen", "MonthlyCharges", "TotalCharges",
	"gender_Female", "gender_Male",
	"Partner_No", "Partner_Yes",
	"Dependents_No", "Dependents_Yes",
	"PhoneService_No", "PhoneService_Yes",
	"MultipleLines_No", "MultipleLines_No phone service", "MultipleLines_Yes",
	"InternetService_DSL", "InternetService_Fiber optic", "InternetService_No",
	"OnlineSecurity_No", "OnlineSecurity_No internet service", "OnlineSecurity_Yes",
	"OnlineBackup_No", "OnlineBackup_No internet service", "OnlineBackup_Yes",
	"DeviceProtection_No", "DeviceProtection_No internet service", "DeviceProtection_Yes",
	"TechSupport_No", "TechSupport_No internet service", "TechSupport_Yes",
	"StreamingTV_No", "StreamingTV_No internet service", "StreamingTV_Yes",
	"StreamingMovies_No", "StreamingMovies_No internet service", "StreamingMovies_Yes",
	"Contract_Month-to-month", "Contract_One year", "Contract_Two year",
	"PaperlessBilling_No", "PaperlessBilling_Yes",
	"PaymentMethod_Bank transfer (automatic)", "PaymentMethod_Credit card (automatic)",
	"PaymentMethod_Electronic check", "PaymentMethod_Mailed check",
	"tenure_group_1 - 12", "tenure_group_13 - 24", "tenure_group_25 - 36",
	"tenure_group_37 - 48", "tenure_group_49 - 60", "tenure_group_61 - 72",
}

// Weights are the non-zero coefficients of the fixture model; every other column
// has weight 0.
var Weights = map[string]float64{
	"MonthlyCharges":                 0.01,
	"InternetService_Fiber optic":    1.0,
	"Contract_Month-to-month":        1.5,
	"Contract_Two year":              -1.8,
	"PaymentMethod_Electronic check": 0.6,
	"tenure_group_1 - 12":            1.2,
	"tenure_group_61 - 72":           -1.5,
}

// Bias is the intercept of the fixture model.
const Bias = -2.5

// BaselineFields is a valid record: tenure 5 and every categorical field at its
// "No" or first vocabulary value.
func BaselineFields() map[string]string {
	return map[string]string{
		"SeniorCitizen":    "0",
		"MonthlyCharges":   "29.85",
		"TotalCharges":     "29.85",
		"tenure":           "5",
		"gender":           "Female",
		"Partner":          "No",
		"Dependents":       "No",
		"PhoneService":     "No",
		"MultipleLines":    "No",
		"InternetService":  "No",
		"OnlineSecurity":   "No",
		"OnlineBackup":     "No",
		"DeviceProtection": "No",
		"TechSupport":      "No",
		"StreamingTV":      "No",
		"StreamingMovies":  "No",
		"Contract":         "Month-to-month",
		"PaperlessBilling": "No",
		"PaymentMethod":    "Electronic check",
	}
}

// WriteReference writes ReferenceCSV into dir and returns its path.
func WriteReference(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "reference.csv")
	if err := os.WriteFile(path, []byte(ReferenceCSV), 0o644); err != nil {
		t.Fatalf("write reference: %v", err)
	}
	return path
}

// Model returns the fixture classifier.
func Model(t testing.TB) *model.LogisticRegression {
	t.Helper()
	w := make([]float64, len(Columns))
	for i, c := range Columns {
		w[i] = Weights[c]
	}
	m, err := model.NewLogisticRegression(Columns, w, Bias, 0)
	if err != nil {
		t.Fatalf("build model: %v", err)
	}
	return m
}

// WriteModel writes the fixture classifier artifact into dir and returns its path.
func WriteModel(t testing.TB, dir string) string {
	t.Helper()
	raw, err := json.MarshalIndent(Model(t), "", "  ")
	if err != nil {
		t.Fatalf("marshal model: %v", err)
	}
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

// Pipeline builds a pipeline over ReferenceCSV and the fixture model.
func Pipeline(t testing.TB, opts ...pipeline.Option) *pipeline.Pipeline {
	t.Helper()
	schema, _, err := pipeline.LoadSchema(WriteReference(t, t.TempDir()))
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	p, err := pipeline.New(schema, Model(t), opts...)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}
