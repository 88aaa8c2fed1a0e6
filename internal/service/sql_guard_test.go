package service

import (
	"errors"
	"strings"
	"testing"

	"football_iq_backend/internal/util"
)

func TestValidateReadOnlyQueryAccepts(t *testing.T) {
	queries := []string{
		"SELECT * FROM players",
		"select name from teams;",
		"  SELECT p.name, t.name FROM players p JOIN teams t ON t.id = p.team_id  ",
		"SELECT name FROM players WHERE goals > (SELECT AVG(goals) FROM players)",
		"SELECT name FROM teams UNION SELECT name FROM players",
		"SELECT x.n FROM (SELECT name AS n FROM teams) AS x",
		"SELECT 1",
		"SELECT 1 + 1 AS two",
		"SELECT (SELECT COUNT(*) FROM teams) AS n",
	}
	for _, q := range queries {
		if err := ValidateReadOnlyQuery(q); err != nil {
			t.Errorf("ValidateReadOnlyQuery(%q) = %v", q, err)
		}
	}
}

func TestValidateReadOnlyQueryRejects(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"", util.ErrEmptyQuery.Message},
		{"   ", util.ErrEmptyQuery.Message},
		{"DELETE FROM players", util.ErrOnlySelectAllowed.Message},
		{"WITH x AS (SELECT 1) SELECT * FROM x", util.ErrOnlySelectAllowed.Message},
		{"SELECT * FROM players; DROP TABLE players", "forbidden keyword: DROP"},
		{"SELECT * FROM players /* delete */", "forbidden keyword: DELETE"},
		{"SELECT * FROM players WHERE id IN (SELECT id FROM players); UPDATE players SET goals = 0", "forbidden keyword: UPDATE"},
		// 子串匹配会误伤包含关键字片段的标识符
		{"SELECT created_at FROM players", "forbidden keyword: CREATE"},
		{"SELECT * FROM users", "Access to table users is not allowed"},
		{"SELECT * FROM sqlite_master", "Access to table sqlite_master is not allowed"},
		{"SELECT * FROM information_schema.tables", "information_schema.tables is not allowed"},
		{"SELECT * FROM players WHERE id IN (SELECT user_id FROM game_sessions)", "game_sessions is not allowed"},
		{"SELECT SLEEP(10)", "Function SLEEP is not allowed"},
		{"SELECT * FROM players FOR UPDATE", "forbidden keyword: UPDATE"},
		{"SELECT * FROM players LOCK IN SHARE MODE", util.ErrOnlySelectAllowed.Message},
		{"SELECT FROM WHERE", "could not be parsed"},
	}
	for _, c := range cases {
		err := ValidateReadOnlyQuery(c.query)
		if err == nil {
			t.Errorf("ValidateReadOnlyQuery(%q) accepted", c.query)
			continue
		}
		var appErr *util.AppError
		if !errors.As(err, &appErr) || appErr.Status != 400 {
			t.Errorf("ValidateReadOnlyQuery(%q) = %v, want a 400 AppError", c.query, err)
			continue
		}
		if !strings.Contains(appErr.Message, c.want) {
			t.Errorf("ValidateReadOnlyQuery(%q) message %q, want %q", c.query, appErr.Message, c.want)
		}
	}
}

// 解析器使用 MySQL 5 语法，窗口函数等 MySQL 8 写法会被拒绝
func TestValidateReadOnlyQueryUnsupportedSyntax(t *testing.T) {
	queries := []string{
		"SELECT name, RANK() OVER (ORDER BY goals DESC) AS r FROM players",
		"SELECT CAST(goals AS REAL) FROM players",
	}
	for _, q := range queries {
		err := ValidateReadOnlyQuery(q)
		var appErr *util.AppError
		if !errors.As(err, &appErr) || !strings.Contains(appErr.Message, "could not be parsed") {
			t.Errorf("ValidateReadOnlyQuery(%q) = %v, want a parse rejection", q, err)
		}
	}

	// 注释和子查询里的关键字仍然被拦截
	for _, q := range []string{
		"SELECT * FROM players /* drop */",
		"SELECT name FROM players WHERE id IN (SELECT id FROM players -- delete\n)",
	} {
		if err := ValidateReadOnlyQuery(q); err == nil {
			t.Errorf("ValidateReadOnlyQuery(%q) accepted", q)
		}
	}
}
