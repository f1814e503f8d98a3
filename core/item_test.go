package core

import "testing"

func TestResultLine(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{"plain filename", Result{ItemID: "7.csv", Label: "1"}, "7.csv: 1"},
		{"negative label", Result{ItemID: "3.csv", Label: "0"}, "3.csv: 0"},
		{"filename with colon", Result{ItemID: "a:b.csv", Label: "1"}, "a:b.csv: 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.result.Line()
			if got != tt.want {
				t.Fatalf("Line = %q, want %q", got, tt.want)
			}

			// 解析是格式化的逆操作，文件名原样还原
			parsed, err := ParseResultLine(got)
			if err != nil {
				t.Fatalf("ParseResultLine: %v", err)
			}
			if parsed.ItemID != tt.result.ItemID || parsed.Label != tt.result.Label {
				t.Errorf("parsed = %+v, want %+v", parsed, tt.result)
			}
		})
	}
}

func TestParseResultLine_Malformed(t *testing.T) {
	for _, line := range []string{"", "no separator", "7.csv:1"} {
		if _, err := ParseResultLine(line); err == nil {
			t.Errorf("ParseResultLine(%q) should fail", line)
		}
	}
}

func TestParseResultLine_TrailingNewline(t *testing.T) {
	r, err := ParseResultLine("7.csv: 1\n")
	if err != nil {
		t.Fatalf("ParseResultLine: %v", err)
	}
	if r.ItemID != "7.csv" || r.Label != "1" {
		t.Errorf("parsed = %+v", r)
	}
}
