package parser

import (
	"testing"

	"fairlens/internal/model"
)

func TestRecognize(t *testing.T) {
	t.Parallel()

	r := NewDatasetRecognizer()

	cases := []struct {
		name    string
		columns []string
		want    model.DatasetKind
	}{
		{
			"hr full",
			[]string{"pseud_id", "salary", "gender", "department", "tenure", "job_level"},
			model.DatasetKindHR,
		},
		{
			"hr synonyms",
			[]string{"Employee ID", "Base Salary", "Sex", "Dept", "Years of Service"},
			model.DatasetKindHR,
		},
		{
			"comm full",
			[]string{"receiver_pseud", "sender_pseud", "response_time_seconds", "message_count", "channel"},
			model.DatasetKindComm,
		},
		{
			"comm synonyms",
			[]string{"recipient", "sender-id", "reply time", "messages"},
			model.DatasetKindComm,
		},
		{
			"unrelated",
			[]string{"order_id", "sku", "quantity", "price"},
			model.DatasetKindUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := r.Recognize(tc.columns)
			if res.Kind != tc.want {
				t.Fatalf("kind = %s (confidence %.2f), want %s", res.Kind, res.Confidence, tc.want)
			}
			if tc.want != model.DatasetKindUnknown && res.Confidence < 0.3 {
				t.Fatalf("confidence = %.2f, want >= 0.3", res.Confidence)
			}
		})
	}
}

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  Salary ":        "salary",
		"Job Level":        "job_level",
		"response-time":    "response_time",
		"RECEIVER_PSEUD":   "receiver_pseud",
		"Years of Service": "years_of_service",
	}
	for in, want := range cases {
		if got := NormalizeColumnName(in); got != want {
			t.Fatalf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	if !MatchPattern("base_salary", "salary|pay|compensation") {
		t.Fatal("substring match failed")
	}
	if MatchPattern("order_id", "salary|pay") {
		t.Fatal("unrelated column matched")
	}
	if MatchPattern("anything", "") {
		t.Fatal("empty pattern matched")
	}
}
