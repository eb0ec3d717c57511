package association

import (
	domain "edgestats/domain/association"
	"edgestats/internal/format"
	"edgestats/internal/interpret"
)

// Line keys, in panel order.
const (
	KeyPValue             = "p_value"
	KeyChiSquare          = "chi_square"
	KeyPhi                = "phi"
	KeyGamma              = "gamma"
	KeyPearsonContingency = "pearson_contingency"
	KeyCramersV           = "cramers_v"
	KeyCramersVCorrected  = "cramers_v_corrected"
)

// Line is one rendered statistic.
type Line struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Panel groups the rendered lines the way the statistics panel shows them:
// upstream scalars first, then the measures derived from the table.
type Panel struct {
	Upstream  []Line `json:"upstream"`
	FromTable []Line `json:"from_table"`
}

// Empty reports whether there is nothing to display.
func (p Panel) Empty() bool {
	return len(p.Upstream) == 0 && len(p.FromTable) == 0
}

// Lines returns every line in display order.
func (p Panel) Lines() []Line {
	out := make([]Line, 0, len(p.Upstream)+len(p.FromTable))
	out = append(out, p.Upstream...)
	return append(out, p.FromTable...)
}

// Presenter renders statistics as display strings.
type Presenter struct {
	formatter format.Formatter
}

func NewPresenter(decimals int) *Presenter {
	return &Presenter{formatter: format.New(decimals)}
}

// PValueString renders the upstream p-value; false when none was supplied.
func (p *Presenter) PValueString(v domain.Value) (string, bool) {
	return p.render("P-Value", v, nil)
}

func (p *Presenter) ChiSquareString(v domain.Value) (string, bool) {
	return p.render("Chi Square Statistic", v, nil)
}

func (p *Presenter) PhiString(v domain.Value) (string, bool) {
	return p.render("Phi Coefficient", v, &interpret.Phi)
}

func (p *Presenter) GammaString(v domain.Value) (string, bool) {
	return p.render("Gamma Coefficient", v, &interpret.Gamma)
}

func (p *Presenter) PearsonContingencyString(v domain.Value) (string, bool) {
	return p.render("Pearson Contingency Coefficient", v, nil)
}

func (p *Presenter) CramersVString(v domain.Value) (string, bool) {
	return p.render("Cramér's V", v, nil)
}

func (p *Presenter) CramersVCorrectedString(v domain.Value) (string, bool) {
	return p.render("Cramér's V (bias corrected)", v, nil)
}

// render omits NotApplicable values and prints Undefined ones as NaN. The
// interpretation is only attached to a number.
func (p *Presenter) render(name string, v domain.Value, bands *interpret.Bands) (string, bool) {
	if !v.Applicable() {
		return "", false
	}
	text := name + ": " + p.formatter.Format(v.Float64())
	if bands != nil && v.IsAvailable() {
		text += " (" + bands.Interpret(v.Float64()) + ")"
	}
	return text, true
}

// Panel renders all applicable statistics in priority order: p-value,
// chi-square, then phi, gamma, Pearson contingency and Cramér's V.
func (p *Presenter) Panel(s domain.Statistics) Panel {
	var panel Panel
	add := func(dst *[]Line, key string, text string, ok bool) {
		if ok {
			*dst = append(*dst, Line{Key: key, Text: text})
		}
	}

	text, ok := p.PValueString(s.PValue)
	add(&panel.Upstream, KeyPValue, text, ok)
	text, ok = p.ChiSquareString(s.ChiSquare)
	add(&panel.Upstream, KeyChiSquare, text, ok)

	text, ok = p.PhiString(s.Phi)
	add(&panel.FromTable, KeyPhi, text, ok)
	text, ok = p.GammaString(s.Gamma)
	add(&panel.FromTable, KeyGamma, text, ok)
	text, ok = p.PearsonContingencyString(s.PearsonContingency)
	add(&panel.FromTable, KeyPearsonContingency, text, ok)
	text, ok = p.CramersVString(s.CramersV)
	add(&panel.FromTable, KeyCramersV, text, ok)
	text, ok = p.CramersVCorrectedString(s.CramersVCorrected)
	add(&panel.FromTable, KeyCramersVCorrected, text, ok)

	return panel
}
