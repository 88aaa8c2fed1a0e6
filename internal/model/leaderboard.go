package model

import "time"

type LeaderboardPeriod string

const (
	PeriodAll   LeaderboardPeriod = "all"
	PeriodWeek  LeaderboardPeriod = "week"
	PeriodMonth LeaderboardPeriod = "month"
)

// Since 返回时间窗口起点；all 返回零值
func (p LeaderboardPeriod) Since(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, 0, -30), true
	}
	return time.Time{}, false
}

func (p LeaderboardPeriod) Valid() bool {
	return p == PeriodAll || p == PeriodWeek || p == PeriodMonth
}

// LeaderboardEntry 排行榜条目（按需计算，不落库）
type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	Username     string `json:"username"`
	FavoriteTeam string `json:"favoriteTeam"`
	Score        int    `json:"score"`
	GamesPlayed  int    `json:"gamesPlayed"`
}

type SQLLeaderboardEntry struct {
	Rank             int    `json:"rank"`
	Username         string `json:"username"`
	FavoriteTeam     string `json:"favoriteTeam"`
	Score            int    `json:"score"`
	ChallengesSolved int    `json:"challengesSolved"`
}
