package service

import (
	"football_iq_backend/internal/model"
	"sort"
	"strconv"
	"strings"
)

// Challenge SQL 挑战，目录在进程内固定不变
type Challenge struct {
	ID            int
	Title         string
	Description   string
	Difficulty    model.Difficulty
	Category      string
	Hint          string
	Points        int
	ExpectedQuery string
	Validate      ResultPredicate
}

// PublicChallenge 下发给客户端的挑战，不含参考答案
type PublicChallenge struct {
	ID          int              `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Category    string           `json:"category"`
	Points      int              `json:"points"`
	Schema      string           `json:"schema,omitempty"`
	Solved      bool             `json:"solved"`
}

func (c *Challenge) Public() PublicChallenge {
	return PublicChallenge{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Difficulty:  c.Difficulty,
		Category:    c.Category,
		Points:      c.Points,
	}
}

type ColumnInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type TableInfo struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Columns     []ColumnInfo `json:"columns"`
	RowCount    int64        `json:"rowCount"`
}

// DatasetSchema 数据集结构说明，与 model.Team/Player/Match 保持一致
func DatasetSchema() []TableInfo {
	return []TableInfo{
		{
			Name:        "teams",
			Description: "Football clubs",
			Columns: []ColumnInfo{
				{"id", "INTEGER", "Primary key"},
				{"name", "TEXT", "Club name"},
				{"short_name", "TEXT", "Three letter code"},
				{"country", "TEXT", "Country the club plays in"},
				{"city", "TEXT", "Home city"},
				{"stadium", "TEXT", "Home stadium"},
				{"founded", "INTEGER", "Year founded"},
			},
		},
		{
			Name:        "players",
			Description: "Season statistics per player",
			Columns: []ColumnInfo{
				{"id", "INTEGER", "Primary key"},
				{"team_id", "INTEGER", "References teams.id"},
				{"name", "TEXT", "Player name"},
				{"position", "TEXT", "Goalkeeper, Defender, Midfielder or Forward"},
				{"nationality", "TEXT", "National team"},
				{"age", "INTEGER", "Age at the start of the season"},
				{"goals", "INTEGER", "League goals"},
				{"assists", "INTEGER", "League assists"},
				{"appearances", "INTEGER", "League appearances"},
			},
		},
		{
			Name:        "matches",
			Description: "Match results",
			Columns: []ColumnInfo{
				{"id", "INTEGER", "Primary key"},
				{"season", "TEXT", "Season, e.g. 2023-2024"},
				{"match_date", "TEXT", "Kick-off date (YYYY-MM-DD)"},
				{"home_team_id", "INTEGER", "References teams.id"},
				{"away_team_id", "INTEGER", "References teams.id"},
				{"home_goals", "INTEGER", "Goals scored by the home team"},
				{"away_goals", "INTEGER", "Goals scored by the away team"},
				{"attendance", "INTEGER", "Spectators"},
			},
		},
	}
}

const schemaSummary = "teams(id, name, short_name, country, city, stadium, founded)\n" +
	"players(id, team_id, name, position, nationality, age, goals, assists, appearances)\n" +
	"matches(id, season, match_date, home_team_id, away_team_id, home_goals, away_goals, attendance)"

var challenges = []Challenge{
	{
		ID:            1,
		Title:         "English Clubs",
		Description:   "List the name and city of every club that plays in England.",
		Difficulty:    model.DifficultyEasy,
		Category:      "Filtering",
		Hint:          "Filter the teams table with WHERE country = 'England'.",
		Points:        10,
		ExpectedQuery: "SELECT name, city FROM teams WHERE country = 'England'",
		Validate: func(r *model.QueryResult) bool {
			return hasColumn(r, "name") && allRows(r, func(row map[string]interface{}) bool {
				return strings.TrimSpace(toString(column(row, "name"))) != ""
			})
		},
	},
	{
		ID:            2,
		Title:         "Top Five Scorers",
		Description:   "Show the five players with the most goals, highest first, with their goal tally.",
		Difficulty:    model.DifficultyEasy,
		Category:      "Sorting",
		Hint:          "Use ORDER BY goals DESC together with LIMIT 5.",
		Points:        10,
		ExpectedQuery: "SELECT name, goals FROM players ORDER BY goals DESC LIMIT 5",
		Validate: func(r *model.QueryResult) bool {
			return hasColumn(r, "goals") && len(r.Rows) <= 5 && sortedDesc(r, "goals")
		},
	},
	{
		ID:            3,
		Title:         "Goalkeepers",
		Description:   "Find every goalkeeper in the dataset along with the id of their club.",
		Difficulty:    model.DifficultyEasy,
		Category:      "Filtering",
		Hint:          "The position column holds values such as 'Goalkeeper'.",
		Points:        10,
		ExpectedQuery: "SELECT name, team_id FROM players WHERE position = 'Goalkeeper'",
		Validate: func(r *model.QueryResult) bool {
			if !hasColumn(r, "name") {
				return false
			}
			if !hasColumn(r, "position") {
				return true
			}
			return allRows(r, func(row map[string]interface{}) bool {
				return strings.EqualFold(toString(column(row, "position")), "Goalkeeper")
			})
		},
	},
	{
		ID:            4,
		Title:         "Players and Their Clubs",
		Description:   "List every player next to the name of the club they play for.",
		Difficulty:    model.DifficultyMedium,
		Category:      "Joins",
		Hint:          "JOIN players to teams on players.team_id = teams.id and alias the two name columns.",
		Points:        20,
		ExpectedQuery: "SELECT p.name AS player, t.name AS team FROM players p JOIN teams t ON t.id = p.team_id",
		Validate: func(r *model.QueryResult) bool {
			return len(r.Columns) >= 2
		},
	},
	{
		ID:            5,
		Title:         "Goals per Club",
		Description:   "Total the league goals of each club's players and rank the clubs by that total.",
		Difficulty:    model.DifficultyMedium,
		Category:      "Aggregation",
		Hint:          "Combine a JOIN with GROUP BY and SUM(p.goals), then ORDER BY the sum descending.",
		Points:        20,
		ExpectedQuery: "SELECT t.name, SUM(p.goals) AS total_goals FROM teams t JOIN players p ON p.team_id = t.id GROUP BY t.id, t.name ORDER BY total_goals DESC",
		Validate: func(r *model.QueryResult) bool {
			return len(r.Columns) >= 2 && anyNumericSortedDesc(r)
		},
	},
	{
		ID:            6,
		Title:         "Average Age by Position",
		Description:   "Work out the average player age for each position.",
		Difficulty:    model.DifficultyMedium,
		Category:      "Aggregation",
		Hint:          "GROUP BY position and use AVG(age).",
		Points:        20,
		ExpectedQuery: "SELECT position, AVG(age) AS avg_age FROM players GROUP BY position",
		Validate: func(r *model.QueryResult) bool {
			if !hasColumn(r, "position") {
				return false
			}
			seen := make(map[string]bool, len(r.Rows))
			for _, row := range r.Rows {
				p := strings.ToLower(toString(column(row, "position")))
				if seen[p] {
					return false
				}
				seen[p] = true
			}
			return true
		},
	},
	{
		ID:            7,
		Title:         "Home Wins",
		Description:   "List every match the home side won, showing the date, both club names and the score.",
		Difficulty:    model.DifficultyHard,
		Category:      "Joins",
		Hint:          "Join teams twice (once for the home side, once for the away side) and compare home_goals with away_goals.",
		Points:        30,
		ExpectedQuery: "SELECT m.match_date, h.name AS home_team, a.name AS away_team, m.home_goals, m.away_goals FROM matches m JOIN teams h ON h.id = m.home_team_id JOIN teams a ON a.id = m.away_team_id WHERE m.home_goals > m.away_goals",
		Validate: func(r *model.QueryResult) bool {
			if !hasColumn(r, "home_goals") || !hasColumn(r, "away_goals") {
				return len(r.Columns) >= 3
			}
			return allRows(r, func(row map[string]interface{}) bool {
				home, ok1 := toFloat(column(row, "home_goals"))
				away, ok2 := toFloat(column(row, "away_goals"))
				return ok1 && ok2 && home > away
			})
		},
	},
	{
		ID:            8,
		Title:         "Biggest Crowds",
		Description:   "Find the three clubs that drew the largest single home attendance and show that attendance.",
		Difficulty:    model.DifficultyHard,
		Category:      "Aggregation",
		Hint:          "Group home matches by club, take MAX(attendance), sort descending and LIMIT 3.",
		Points:        30,
		ExpectedQuery: "SELECT t.name, MAX(m.attendance) AS max_attendance FROM matches m JOIN teams t ON t.id = m.home_team_id GROUP BY t.id, t.name ORDER BY max_attendance DESC LIMIT 3",
		Validate: func(r *model.QueryResult) bool {
			return len(r.Rows) <= 3 && anyNumericSortedDesc(r)
		},
	},
	{
		ID:            9,
		Title:         "Above-Average Scorers",
		Description:   "List the players who scored more goals than the dataset average, most goals first.",
		Difficulty:    model.DifficultyExpert,
		Category:      "Subqueries",
		Hint:          "Compare goals against a subquery: WHERE goals > (SELECT AVG(goals) FROM players).",
		Points:        50,
		ExpectedQuery: "SELECT name, goals FROM players WHERE goals > (SELECT AVG(goals) FROM players) ORDER BY goals DESC",
		Validate: func(r *model.QueryResult) bool {
			return hasColumn(r, "goals") && sortedDesc(r, "goals")
		},
	},
}

// Challenges 按 ID 排列的挑战目录
func Challenges() []Challenge {
	out := make([]Challenge, len(challenges))
	copy(out, challenges)
	return out
}

func FindChallenge(id int) (*Challenge, bool) {
	for i := range challenges {
		if challenges[i].ID == id {
			c := challenges[i]
			return &c, true
		}
	}
	return nil, false
}

func columnName(r *model.QueryResult, name string) (string, bool) {
	for _, c := range r.Columns {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

func hasColumn(r *model.QueryResult, name string) bool {
	_, ok := columnName(r, name)
	return ok
}

func column(row map[string]interface{}, name string) interface{} {
	if v, ok := row[name]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return nil
}

func allRows(r *model.QueryResult, fn func(row map[string]interface{}) bool) bool {
	for _, row := range r.Rows {
		if !fn(row) {
			return false
		}
	}
	return true
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// toFloat MySQL 文本协议下数值可能以字符串返回
func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(val)), 64)
		return f, err == nil
	}
	return 0, false
}

func sortedDesc(r *model.QueryResult, name string) bool {
	col, ok := columnName(r, name)
	if !ok {
		return false
	}
	values := make([]float64, 0, len(r.Rows))
	for _, row := range r.Rows {
		f, ok := toFloat(row[col])
		if !ok {
			return false
		}
		values = append(values, f)
	}
	return sort.SliceIsSorted(values, func(i, j int) bool { return values[i] > values[j] })
}

// anyNumericSortedDesc 任一全数值列按降序排列即可，不关心列别名
func anyNumericSortedDesc(r *model.QueryResult) bool {
	for _, col := range r.Columns {
		if sortedDesc(r, col) {
			return true
		}
	}
	return false
}
