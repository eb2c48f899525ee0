package analyzer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"fairlens/internal/frame"
	"fairlens/internal/model"
)

// DefaultConfidence 默认置信水平
const DefaultConfidence = 0.95

// Estimator 调整后薪酬差距估计器
// 对结果变量做最小二乘回归：结果 ~ 分组指示变量 + 控制变量，
// 分组系数即为控制协变量后的组间差距。无副作用，纯函数。
type Estimator struct {
	confidence float64
}

// NewEstimator 创建估计器
// confidence 不在 (0,1) 区间时使用默认置信水平。
func NewEstimator(confidence float64) *Estimator {
	if confidence <= 0 || confidence >= 1 {
		confidence = DefaultConfidence
	}
	return &Estimator{confidence: confidence}
}

// Estimate 执行调整后薪酬差距分析
// 在结果列、分组列或任一控制列缺失的行被剔除，剔除行数计入结果。
func (e *Estimator) Estimate(f *frame.Frame, req model.AnalysisRequest) (*model.BiasEstimate, error) {
	if err := validateRequest(f, req); err != nil {
		return nil, err
	}

	all := append([]string{req.OutcomeColumn, req.GroupColumn}, req.ControlColumns...)
	kept, excluded, err := f.CompleteRows(all...)
	if err != nil {
		return nil, err
	}

	d, err := buildDesignMatrix(f, req, kept)
	if err != nil {
		return nil, err
	}

	n := len(kept)
	p := d.p()
	if n < p+1 {
		return nil, &InsufficientDataError{Rows: n, Coefficients: p}
	}

	// QR 分解求最小二乘解
	var qr mat.QR
	qr.Factorize(d.x)
	beta := mat.NewVecDense(p, nil)
	if err := qr.SolveVecTo(beta, false, d.y); err != nil {
		return nil, fmt.Errorf("least squares solve failed (collinear columns?): %w", err)
	}

	// 残差与拟合优度
	fitted := mat.NewVecDense(n, nil)
	fitted.MulVec(d.x, beta)

	outcome := make([]float64, n)
	rss := 0.0
	for i := 0; i < n; i++ {
		outcome[i] = d.y.AtVec(i)
		r := d.y.AtVec(i) - fitted.AtVec(i)
		rss += r * r
	}
	mean := stat.Mean(outcome, nil)
	tss := 0.0
	for _, v := range outcome {
		dev := v - mean
		tss += dev * dev
	}
	rsq := 0.0
	if tss > 0 {
		rsq = 1 - rss/tss
	}

	dof := n - p
	sigma2 := rss / float64(dof)

	// 系数协方差 σ²(XᵀX)⁻¹
	var xtx, xtxInv mat.Dense
	xtx.Mul(d.x.T(), d.x)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("design matrix is singular: %w", err)
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
	alpha := 1 - e.confidence
	tCrit := tDist.Quantile(1 - alpha/2)

	var effects []model.GroupEffect
	for j, t := range d.terms {
		if t.groupLevel == "" {
			continue
		}
		coef := beta.AtVec(j + 1)
		se := math.Sqrt(sigma2 * xtxInv.At(j+1, j+1))

		var tStat, pValue float64
		if se > 0 {
			tStat = coef / se
			pValue = 2 * tDist.CDF(-math.Abs(tStat))
		} else {
			// 完美拟合：标准误为零
			tStat = math.Inf(sign(coef))
			pValue = 0
		}

		effects = append(effects, model.GroupEffect{
			Level:       t.groupLevel,
			Coefficient: coef,
			StdErr:      se,
			TStat:       tStat,
			PValue:      pValue,
			CILower:     coef - tCrit*se,
			CIUpper:     coef + tCrit*se,
		})
	}

	return &model.BiasEstimate{
		OutcomeColumn:  req.OutcomeColumn,
		GroupColumn:    req.GroupColumn,
		ControlColumns: req.ControlColumns,
		ReferenceLevel: d.reference,
		Effects:        effects,
		Intercept:      beta.AtVec(0),
		RowsUsed:       n,
		RowsExcluded:   excluded,
		ResidualDOF:    dof,
		RSquared:       rsq,
		Confidence:     e.confidence,
	}, nil
}

// validateRequest 校验请求列的存在性与类型
func validateRequest(f *frame.Frame, req model.AnalysisRequest) error {
	outcome, ok := f.Column(req.OutcomeColumn)
	if !ok {
		return &ColumnNotFoundError{Column: req.OutcomeColumn}
	}
	if !f.HasColumn(req.GroupColumn) {
		return &ColumnNotFoundError{Column: req.GroupColumn}
	}
	seen := map[string]bool{}
	for _, ctrl := range req.ControlColumns {
		if !f.HasColumn(ctrl) {
			return &ColumnNotFoundError{Column: ctrl}
		}
		if ctrl == req.OutcomeColumn || ctrl == req.GroupColumn {
			return fmt.Errorf("control column %s duplicates outcome or group column", ctrl)
		}
		if seen[ctrl] {
			return fmt.Errorf("control column %s listed more than once", ctrl)
		}
		seen[ctrl] = true
	}
	if !outcome.IsNumeric() {
		return &NonNumericOutcomeError{Column: req.OutcomeColumn}
	}
	return nil
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
