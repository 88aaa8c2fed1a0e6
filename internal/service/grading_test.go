package service

import (
	"strings"
	"testing"

	"football_iq_backend/internal/model"
)

func TestGradeTriviaAnswer(t *testing.T) {
	cases := []struct {
		submitted, correct string
		want               bool
	}{
		{"Germany", "Germany", true},
		{"  germany ", "Germany", true},
		{"GERMANY", "Germany", true},
		{"Germ", "Germany", false},
		{"", "Germany", false},
		{"11", " 11 ", true},
	}
	for _, c := range cases {
		if got := GradeTriviaAnswer(c.submitted, c.correct); got != c.want {
			t.Errorf("GradeTriviaAnswer(%q, %q) = %v", c.submitted, c.correct, got)
		}
	}
}

func result(cols []string, rows int) *model.QueryResult {
	r := &model.QueryResult{Columns: cols, Rows: []map[string]interface{}{}}
	for i := 0; i < rows; i++ {
		row := map[string]interface{}{}
		for _, c := range cols {
			row[c] = int64(rows - i)
		}
		r.Rows = append(r.Rows, row)
	}
	r.RowCount = rows
	return r
}

func TestGradeChallenge(t *testing.T) {
	pass := func(*model.QueryResult) bool { return true }
	fail := func(*model.QueryResult) bool { return false }

	cases := []struct {
		name     string
		validate ResultPredicate
		user     *model.QueryResult
		expected *model.QueryResult
		want     bool
		feedback string
	}{
		{"valid with same columns", pass, result([]string{"a", "b"}, 3), result([]string{"a", "b"}, 3), true, "Correct!"},
		{"one column short is tolerated", pass, result([]string{"a"}, 3), result([]string{"a", "b"}, 3), true, "Correct!"},
		{"two columns short", pass, result([]string{"a"}, 3), result([]string{"a", "b", "c"}, 3), false, "expected 3 columns, got 1"},
		{"both empty", fail, result([]string{"a"}, 0), result([]string{"a"}, 0), true, "Both your query"},
		{"user empty", pass, result([]string{"a"}, 0), result([]string{"a"}, 2), false, "returned no rows"},
		{"predicate fails", fail, result([]string{"a"}, 2), result([]string{"a"}, 2), false, "don't match"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, feedback := GradeChallenge(c.validate, c.user, c.expected)
			if got != c.want {
				t.Fatalf("correct = %v, want %v", got, c.want)
			}
			if !strings.Contains(feedback, c.feedback) {
				t.Fatalf("feedback %q does not contain %q", feedback, c.feedback)
			}
		})
	}
}
