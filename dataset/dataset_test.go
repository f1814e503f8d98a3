package dataset

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/rushteam/scorekit/core"
	"github.com/rushteam/scorekit/store"
)

const sourceCSV = `Pregnancies,Glucose,BloodPressure,SkinThickness,Insulin,BMI,DiabetesPedigreeFunction,Age,Outcome
6,148,72,35,0,33.6,0.627,50,1
1,85,66,29,0,26.6,0.351,31,0
8,183,64,0,0,23.3,0.672,32,1
1,89,66,23,94,28.1,0.167,21,0
0,137,40,35,168,43.1,2.288,33,1
`

func TestReadSourceFrom(t *testing.T) {
	records, err := ReadSourceFrom(strings.NewReader(sourceCSV))
	if err != nil {
		t.Fatalf("ReadSourceFrom: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("records = %d, want 5", len(records))
	}

	want := []float64{6, 148, 72, 35, 0, 33.6, 0.627, 50}
	if got := records[0].Features(); !reflect.DeepEqual(got, want) {
		t.Errorf("features = %v, want %v", got, want)
	}
	if records[0].Outcome != 1 {
		t.Errorf("outcome = %d, want 1", records[0].Outcome)
	}
	if len(records[0].Features()) != FeatureCount {
		t.Errorf("feature count = %d, want %d", len(records[0].Features()), FeatureCount)
	}
}

func TestReadSourceFrom_BadCSV(t *testing.T) {
	_, err := ReadSourceFrom(strings.NewReader("Pregnancies,Glucose\nabc,def\n"))
	if err == nil {
		t.Fatal("expected error for non-numeric columns")
	}
	if !core.IsDomainError(err) {
		t.Errorf("error = %v, want domain error", err)
	}
}

func TestSample(t *testing.T) {
	records, err := ReadSourceFrom(strings.NewReader(sourceCSV))
	if err != nil {
		t.Fatalf("ReadSourceFrom: %v", err)
	}

	t.Run("deterministic for fixed seed", func(t *testing.T) {
		a := Sample(records, 3, 42)
		b := Sample(records, 3, 42)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("same seed diverged: %v vs %v", a, b)
		}
		if len(a) != 3 {
			t.Errorf("sample size = %d, want 3", len(a))
		}
	})

	t.Run("different seeds may reorder", func(t *testing.T) {
		a := Sample(records, 5, 1)
		if len(a) != 5 {
			t.Errorf("sample size = %d, want 5", len(a))
		}
	})

	t.Run("n exceeding population returns all", func(t *testing.T) {
		a := Sample(records, 100, 42)
		if len(a) != len(records) {
			t.Errorf("sample size = %d, want %d", len(a), len(records))
		}
	})

	t.Run("non-positive n returns nil", func(t *testing.T) {
		if got := Sample(records, 0, 42); got != nil {
			t.Errorf("sample = %v, want nil", got)
		}
	})
}

func TestStager_Stage(t *testing.T) {
	records, err := ReadSourceFrom(strings.NewReader(sourceCSV))
	if err != nil {
		t.Fatalf("ReadSourceFrom: %v", err)
	}

	s := store.NewMemoryStore()
	defer s.Close()

	stager := NewStager(s, "inputs/")
	keys, err := stager.Stage(context.Background(), records)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if len(keys) != len(records) {
		t.Fatalf("keys = %d, want %d", len(keys), len(records))
	}
	if keys[0] != "inputs/0.csv" {
		t.Errorf("first key = %q, want %q", keys[0], "inputs/0.csv")
	}

	// 文件内容是无表头、无标签的一行特征向量
	raw, err := s.Get(context.Background(), keys[0])
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got, want := string(raw), "6,148,72,35,0,33.6,0.627,50"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}

	// 枚举前缀能找回全部输入
	listed, err := s.List(context.Background(), "inputs/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != len(records) {
		t.Errorf("listed = %d, want %d", len(listed), len(records))
	}
}

func TestStager_StageEmpty(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	keys, err := NewStager(s, "inputs/").Stage(context.Background(), nil)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if keys != nil {
		t.Errorf("keys = %v, want nil", keys)
	}
}

func TestFormatVector(t *testing.T) {
	tests := []struct {
		name     string
		features []float64
		want     string
	}{
		{"integers stay compact", []float64{2, 150, 85}, "2,150,85"},
		{"decimals kept", []float64{35.2, 0.5}, "35.2,0.5"},
		{"empty vector", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatVector(tt.features); got != tt.want {
				t.Errorf("FormatVector = %q, want %q", got, tt.want)
			}
		})
	}
}
