package service

import (
	"fmt"
	"football_iq_backend/internal/model"
	"football_iq_backend/internal/util"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// blockedKeywords 按原始子串匹配，会误伤包含这些片段的标识符（如 updated_at）
var blockedKeywords = []string{
	"DROP", "DELETE", "UPDATE", "INSERT", "ALTER", "CREATE", "TRUNCATE", "EXEC", "EXECUTE",
}

var blockedFunctions = map[string]bool{
	"sleep":     true,
	"benchmark": true,
	"load_file": true,
}

// ValidateReadOnlyQuery 沙箱查询的安全策略。
// 关键字黑名单只是启发式检查，真正的限制来自语法解析出的语句类型和表白名单，
// 以及执行时的只读事务。
func ValidateReadOnlyQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return util.ErrEmptyQuery
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") {
		return util.ErrOnlySelectAllowed
	}
	for _, kw := range blockedKeywords {
		if strings.Contains(upper, kw) {
			return util.NewValidationError(fmt.Sprintf("Query contains forbidden keyword: %s", kw))
		}
	}

	stmt, err := sqlparser.Parse(strings.TrimRight(trimmed, "; \t\r\n"))
	if err != nil {
		return util.NewValidationError("Query could not be parsed as a single SELECT statement").Wrap(err)
	}

	switch s := stmt.(type) {
	case *sqlparser.Select:
		if s.Lock != "" {
			return util.ErrOnlySelectAllowed
		}
	case *sqlparser.Union:
		if s.Lock != "" {
			return util.ErrOnlySelectAllowed
		}
	case *sqlparser.ParenSelect:
	default:
		return util.ErrOnlySelectAllowed
	}

	allowed := make(map[string]bool, len(model.DatasetTables))
	for _, t := range model.DatasetTables {
		allowed[t] = true
	}

	return sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		switch n := node.(type) {
		case *sqlparser.AliasedTableExpr:
			name, ok := n.Expr.(sqlparser.TableName)
			if !ok {
				// 子查询，继续向下遍历
				return true, nil
			}
			// 没有 FROM 的 SELECT 会被解析成 FROM dual
			if name.Qualifier.IsEmpty() && strings.EqualFold(name.Name.String(), "dual") {
				return true, nil
			}
			if !name.Qualifier.IsEmpty() {
				return false, util.NewValidationError(fmt.Sprintf("Access to table %s.%s is not allowed", name.Qualifier.String(), name.Name.String()))
			}
			table := strings.ToLower(name.Name.String())
			if !allowed[table] {
				return false, util.NewValidationError(fmt.Sprintf("Access to table %s is not allowed. Available tables: %s", name.Name.String(), strings.Join(model.DatasetTables, ", ")))
			}
		case *sqlparser.FuncExpr:
			if blockedFunctions[n.Name.Lowered()] {
				return false, util.NewValidationError(fmt.Sprintf("Function %s is not allowed", n.Name.String()))
			}
		}
		return true, nil
	}, stmt)
}
