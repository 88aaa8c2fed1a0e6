package model

// QueryResult 沙箱查询结果。RowCount 为截断前的总行数。
type QueryResult struct {
	Columns       []string                 `json:"columns"`
	Rows          []map[string]interface{} `json:"results"`
	RowCount      int                      `json:"rowCount"`
	Truncated     bool                     `json:"truncated"`
	ExecutionTime int64                    `json:"executionTime"` // 毫秒
}

// Sample 返回前 n 行
func (r *QueryResult) Sample(n int) []map[string]interface{} {
	if r == nil {
		return []map[string]interface{}{}
	}
	if n >= len(r.Rows) {
		return r.Rows
	}
	return r.Rows[:n]
}
