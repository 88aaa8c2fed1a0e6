package model

// 以下为 SQL 沙箱可查询的足球数据集。
// 列名刻意避开 CREATE/UPDATE 等关键字子串，否则会被安全检查拦截。

type Team struct {
	ID        uint   `gorm:"primaryKey" json:"id" csv:"id"`
	Name      string `gorm:"size:100;not null" json:"name" csv:"name"`
	ShortName string `gorm:"size:10" json:"short_name" csv:"short_name"`
	Country   string `gorm:"size:50" json:"country" csv:"country"`
	City      string `gorm:"size:50" json:"city" csv:"city"`
	Stadium   string `gorm:"size:100" json:"stadium" csv:"stadium"`
	Founded   int    `json:"founded" csv:"founded"`
}

func (Team) TableName() string {
	return "teams"
}

type Player struct {
	ID          uint   `gorm:"primaryKey" json:"id" csv:"id"`
	TeamID      uint   `gorm:"index" json:"team_id" csv:"team_id"`
	Name        string `gorm:"size:100;not null" json:"name" csv:"name"`
	Position    string `gorm:"size:20" json:"position" csv:"position"`
	Nationality string `gorm:"size:50" json:"nationality" csv:"nationality"`
	Age         int    `json:"age" csv:"age"`
	Goals       int    `json:"goals" csv:"goals"`
	Assists     int    `json:"assists" csv:"assists"`
	Appearances int    `json:"appearances" csv:"appearances"`
}

func (Player) TableName() string {
	return "players"
}

type Match struct {
	ID         uint   `gorm:"primaryKey" json:"id" csv:"id"`
	Season     string `gorm:"size:9;index" json:"season" csv:"season"`
	MatchDate  string `gorm:"size:10" json:"match_date" csv:"match_date"`
	HomeTeamID uint   `gorm:"index" json:"home_team_id" csv:"home_team_id"`
	AwayTeamID uint   `gorm:"index" json:"away_team_id" csv:"away_team_id"`
	HomeGoals  int    `json:"home_goals" csv:"home_goals"`
	AwayGoals  int    `json:"away_goals" csv:"away_goals"`
	Attendance int    `json:"attendance" csv:"attendance"`
}

func (Match) TableName() string {
	return "matches"
}

// DatasetTables 沙箱允许访问的表
var DatasetTables = []string{"teams", "players", "matches"}
