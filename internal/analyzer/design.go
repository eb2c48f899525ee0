package analyzer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"fairlens/internal/frame"
	"fairlens/internal/model"
)

// term 设计矩阵中的一列（截距除外）
type term struct {
	name       string // 系数名，如 group[B] 或 tenure
	groupLevel string // 非空表示该列是分组指示变量，值为对应组别
}

// designMatrix 回归设计矩阵
type designMatrix struct {
	x         *mat.Dense    // n x p，首列为截距
	y         *mat.VecDense // n x 1
	terms     []term        // 截距之外的各列，与 x 的 1..p-1 列对应
	reference string        // 分组列基准组别
}

// p 系数个数（含截距）
func (d *designMatrix) p() int {
	return len(d.terms) + 1
}

// referenceLevel 选取基准组别：出现次数最多者，并列时取首次出现者
func referenceLevel(levels []string, counts map[string]int) string {
	ref := levels[0]
	for _, lv := range levels[1:] {
		if counts[lv] > counts[ref] {
			ref = lv
		}
	}
	return ref
}

// buildDesignMatrix 按请求构建设计矩阵
// 分组列对基准组别做哑变量编码；分类控制变量同样编码（各自选基准）；
// 数值控制变量原样进入。rowIdx 为已剔除缺失后的行下标。
func buildDesignMatrix(f *frame.Frame, req model.AnalysisRequest, rowIdx []int) (*designMatrix, error) {
	y, err := f.Numeric(req.OutcomeColumn, rowIdx)
	if err != nil {
		return nil, &NonNumericOutcomeError{Column: req.OutcomeColumn, Detail: err.Error()}
	}

	groupLevels := f.Levels(req.GroupColumn, rowIdx)
	if len(groupLevels) < 2 {
		return nil, &DegenerateGroupingError{Column: req.GroupColumn, Levels: len(groupLevels)}
	}
	ref := referenceLevel(groupLevels, f.LevelCounts(req.GroupColumn, rowIdx))

	var terms []term
	var columns [][]float64

	// 分组指示变量（跳过基准组别）
	for _, lv := range groupLevels {
		if lv == ref {
			continue
		}
		col := make([]float64, len(rowIdx))
		for k, i := range rowIdx {
			if f.Cell(i, req.GroupColumn) == lv {
				col[k] = 1
			}
		}
		terms = append(terms, term{name: fmt.Sprintf("%s[%s]", req.GroupColumn, lv), groupLevel: lv})
		columns = append(columns, col)
	}

	// 控制变量
	for _, ctrl := range req.ControlColumns {
		spec, _ := f.Column(ctrl)
		if spec.IsNumeric() {
			col, err := f.Numeric(ctrl, rowIdx)
			if err != nil {
				return nil, fmt.Errorf("control column %s: %w", ctrl, err)
			}
			terms = append(terms, term{name: ctrl})
			columns = append(columns, col)
			continue
		}

		// 分类控制变量：哑变量编码，基准组别不进入模型
		levels := f.Levels(ctrl, rowIdx)
		if len(levels) < 2 {
			// 剔除缺失后只剩单一取值，等价于常数列，跳过
			continue
		}
		ctrlRef := referenceLevel(levels, f.LevelCounts(ctrl, rowIdx))
		for _, lv := range levels {
			if lv == ctrlRef {
				continue
			}
			col := make([]float64, len(rowIdx))
			for k, i := range rowIdx {
				if f.Cell(i, ctrl) == lv {
					col[k] = 1
				}
			}
			terms = append(terms, term{name: fmt.Sprintf("%s[%s]", ctrl, lv)})
			columns = append(columns, col)
		}
	}

	n := len(rowIdx)
	p := len(terms) + 1
	x := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1) // 截距
		for j, col := range columns {
			x.Set(i, j+1, col[i])
		}
	}

	return &designMatrix{
		x:         x,
		y:         mat.NewVecDense(n, y),
		terms:     terms,
		reference: ref,
	}, nil
}
