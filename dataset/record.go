package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/rushteam/scorekit/core"
)

// Record 是带标注的源数据集的一行（糖尿病风险数据集的列布局）。
// 前 8 列是数值特征，Outcome 是二分类标签；打分输入只使用特征列。
type Record struct {
	Pregnancies      float64 `csv:"Pregnancies"`
	Glucose          float64 `csv:"Glucose"`
	BloodPressure    float64 `csv:"BloodPressure"`
	SkinThickness    float64 `csv:"SkinThickness"`
	Insulin          float64 `csv:"Insulin"`
	BMI              float64 `csv:"BMI"`
	DiabetesPedigree float64 `csv:"DiabetesPedigreeFunction"`
	Age              float64 `csv:"Age"`
	Outcome          int     `csv:"Outcome"`
}

// FeatureCount 是 Record 的特征列数。
const FeatureCount = 8

// Features 返回该行的定宽特征向量（不含标签列）。
func (r *Record) Features() []float64 {
	return []float64{
		r.Pregnancies,
		r.Glucose,
		r.BloodPressure,
		r.SkinThickness,
		r.Insulin,
		r.BMI,
		r.DiabetesPedigree,
		r.Age,
	}
}

// ReadSource 从 CSV 文件读取带表头的源数据集。
func ReadSource(path string) ([]*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open source: %w", err)
	}
	defer file.Close()

	return ReadSourceFrom(file)
}

// ReadSourceFrom 从 io.Reader 读取带表头的源数据集。
func ReadSourceFrom(r io.Reader) ([]*Record, error) {
	var records []*Record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
			fmt.Sprintf("dataset: parse source csv: %v", err))
	}
	return records, nil
}
