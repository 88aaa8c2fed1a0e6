package service

import (
	"fmt"
	"football_iq_backend/internal/model"
	"strings"
)

// GradeTriviaAnswer 去掉首尾空白后不区分大小写的完全匹配，没有部分得分
func GradeTriviaAnswer(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}

// ResultPredicate 挑战自带的结果集校验
type ResultPredicate func(result *model.QueryResult) bool

const (
	feedbackCorrect      = "Correct! Your query returned the expected results."
	feedbackEmptyMatch   = "Correct! Both your query and the expected query returned no rows."
	feedbackWrongColumns = "Your results look close, but some expected columns are missing (expected %d columns, got %d)."
	feedbackNoRows       = "Your query returned no rows, but the expected query did. Check your filters."
	feedbackIncorrect    = "Your query ran, but the results don't match what the challenge asks for. Check the hint and try again."
)

// GradeChallenge 判定 SQL 挑战是否通过：
//   - 校验函数通过且用户结果非空时，列数不少于参考结果列数减一即视为正确（容忍别名差异）
//   - 双方结果都为空视为正确
//   - 其余情况判错并给出反馈
func GradeChallenge(validate ResultPredicate, user, expected *model.QueryResult) (bool, string) {
	userRows := len(user.Rows)
	expectedRows := 0
	expectedCols := 0
	if expected != nil {
		expectedRows = len(expected.Rows)
		expectedCols = len(expected.Columns)
	}

	if userRows > 0 && validate != nil && validate(user) {
		if len(user.Columns) >= expectedCols-1 {
			return true, feedbackCorrect
		}
		return false, fmt.Sprintf(feedbackWrongColumns, expectedCols, len(user.Columns))
	}

	if userRows == 0 && expectedRows == 0 {
		return true, feedbackEmptyMatch
	}
	if userRows == 0 {
		return false, feedbackNoRows
	}
	return false, feedbackIncorrect
}
