package association

// Statistics is the full set of association measures for one edge. It is
// recomputed on every request and never mutated.
type Statistics struct {
	ValidMatrix bool  `json:"valid_matrix"`
	Rows        int   `json:"rows"`
	Columns     int   `json:"columns"`
	SampleSize  Value `json:"sample_size"`

	ChiSquare Value `json:"chi_square"`
	PValue    Value `json:"p_value"`

	Phi                Value `json:"phi"`
	Gamma              Value `json:"gamma"`
	PearsonContingency Value `json:"pearson_contingency"`
	CramersV           Value `json:"cramers_v"`
	CramersVCorrected  Value `json:"cramers_v_corrected"`
}
