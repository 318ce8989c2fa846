package main

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/spf13/cobra"
)

func (c *cli) predictCmd() *cobra.Command {
	var (
		pairs      []string
		recordPath string
		asJSON     bool
		showVector bool
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict churn for a single customer record",
		Long: `Reads one record from --field flags, a JSON file, or both (flags win) and
prints the verdict and the confidence of the predicted outcome.

Fields are named as in the Telco dataset (gender, tenure, Contract, ...) or by
their form names query1..query19.

Example:
  churn predict --record customer.json --field tenure=24`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]string{}
			if recordPath != "" {
				rec, err := readRecordFile(recordPath)
				if err != nil {
					return err
				}
				maps.Copy(fields, rec)
			}
			flagFields, err := parseFieldFlags(pairs)
			if err != nil {
				return err
			}
			maps.Copy(fields, flagFields)
			if len(fields) == 0 {
				return usagef("no record given: use --field or --record")
			}

			svc, release, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			out, err := svc.Predict(cmd.Context(), fields)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			fmt.Fprintln(w, out.Headline())
			fmt.Fprintln(w, "Confidence:", out.ConfidenceText())
			if showVector {
				features, err := svc.Holder().Load().Schema().Describe(out.Vector)
				if err != nil {
					return err
				}
				fmt.Fprintln(w)
				for _, f := range features {
					fmt.Fprintf(w, "%-45s %g\n", f.Column, f.Value)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&pairs, "field", "f", nil, "record field as name=value (repeatable)")
	cmd.Flags().StringVar(&recordPath, "record", "", "JSON file holding the record")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&showVector, "show-vector", false, "also print the assembled feature vector")
	return cmd
}
