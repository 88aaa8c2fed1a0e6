package database

import (
	"football_iq_backend/internal/model"

	"gorm.io/gorm"
)

func q(difficulty model.Difficulty, category string, points int, text string, options []string, answer, explanation string) model.Question {
	return model.Question{
		Question:      text,
		Options:       options,
		CorrectAnswer: answer,
		Difficulty:    difficulty,
		Category:      category,
		Points:        points,
		Explanation:   explanation,
		IsActive:      true,
	}
}

// DefaultQuestions 默认题库，表为空时写入
func DefaultQuestions() []model.Question {
	return []model.Question{
		q(model.DifficultyEasy, "World Cup", 10, "Which country won the 2014 FIFA World Cup?",
			[]string{"Argentina", "Germany", "Brazil", "Netherlands"}, "Germany",
			"Germany beat Argentina 1-0 after extra time in Rio de Janeiro."),
		q(model.DifficultyEasy, "Premier League", 10, "Which club plays its home games at Anfield?",
			[]string{"Everton", "Manchester United", "Liverpool", "Chelsea"}, "Liverpool",
			"Anfield has been Liverpool's home since 1892."),
		q(model.DifficultyEasy, "Rules", 10, "How many players does each team have on the pitch at kick-off?",
			[]string{"9", "10", "11", "12"}, "11",
			"Each side fields ten outfield players and a goalkeeper."),
		q(model.DifficultyEasy, "Players", 10, "Which country does Kylian Mbappe represent?",
			[]string{"Belgium", "France", "Cameroon", "Portugal"}, "France",
			"Mbappe won the 2018 World Cup with France."),
		q(model.DifficultyEasy, "Clubs", 10, "Which Spanish club is nicknamed 'Los Blancos'?",
			[]string{"Barcelona", "Atletico Madrid", "Real Madrid", "Sevilla"}, "Real Madrid",
			"Real Madrid are known for their all-white kit."),
		q(model.DifficultyEasy, "Rules", 10, "How long is a standard professional match, excluding stoppage time?",
			[]string{"80 minutes", "90 minutes", "100 minutes", "120 minutes"}, "90 minutes",
			"Two halves of 45 minutes each."),
		q(model.DifficultyMedium, "Premier League", 20, "Which club went unbeaten through the 2003-04 Premier League season?",
			[]string{"Manchester United", "Chelsea", "Arsenal", "Liverpool"}, "Arsenal",
			"Arsenal's 'Invincibles' won 26 and drew 12 of their 38 matches."),
		q(model.DifficultyMedium, "World Cup", 20, "Which country hosted the 2010 FIFA World Cup?",
			[]string{"Brazil", "Germany", "South Africa", "Japan"}, "South Africa",
			"It was the first World Cup held in Africa."),
		q(model.DifficultyMedium, "Players", 20, "Who is the all-time top scorer in Champions League history?",
			[]string{"Lionel Messi", "Cristiano Ronaldo", "Robert Lewandowski", "Raul"}, "Cristiano Ronaldo",
			"Ronaldo scored more than 140 Champions League goals."),
		q(model.DifficultyMedium, "Clubs", 20, "Which Italian club is based at the San Siro along with AC Milan?",
			[]string{"Juventus", "Inter Milan", "Napoli", "Roma"}, "Inter Milan",
			"Inter and Milan share the Stadio Giuseppe Meazza."),
		q(model.DifficultyMedium, "Euros", 20, "Which country won UEFA Euro 2016?",
			[]string{"France", "Portugal", "Wales", "Germany"}, "Portugal",
			"Eder scored the extra-time winner against France."),
		q(model.DifficultyMedium, "Managers", 20, "Which manager led Leicester City to the 2015-16 Premier League title?",
			[]string{"Claudio Ranieri", "Nigel Pearson", "Brendan Rodgers", "Sven-Goran Eriksson"}, "Claudio Ranieri",
			"Leicester started the season as 5000-1 outsiders."),
		q(model.DifficultyHard, "World Cup", 30, "Who scored the 'Hand of God' goal in 1986?",
			[]string{"Pele", "Diego Maradona", "Zico", "Gary Lineker"}, "Diego Maradona",
			"Maradona punched the ball past Peter Shilton in the quarter-final against England."),
		q(model.DifficultyHard, "History", 30, "In which year was the first FIFA World Cup held?",
			[]string{"1926", "1930", "1934", "1950"}, "1930",
			"Uruguay hosted and won the first tournament."),
		q(model.DifficultyHard, "Premier League", 30, "Who scored the fastest hat-trick in Premier League history?",
			[]string{"Robbie Fowler", "Sadio Mane", "Alan Shearer", "Jermain Defoe"}, "Sadio Mane",
			"Mane scored three in 2 minutes 56 seconds for Southampton against Aston Villa in 2015."),
		q(model.DifficultyHard, "Clubs", 30, "Which club won the first European Cup in 1956?",
			[]string{"Benfica", "AC Milan", "Real Madrid", "Reims"}, "Real Madrid",
			"Real Madrid beat Reims 4-3 in Paris and went on to win the first five editions."),
		q(model.DifficultyHard, "Players", 30, "Which goalkeeper won the Ballon d'Or in 1963?",
			[]string{"Gordon Banks", "Lev Yashin", "Dino Zoff", "Ricardo Zamora"}, "Lev Yashin",
			"Yashin remains the only goalkeeper to win the award."),
		q(model.DifficultyExpert, "History", 50, "Which country won the 1954 World Cup final known as 'The Miracle of Bern'?",
			[]string{"Hungary", "West Germany", "Uruguay", "Austria"}, "West Germany",
			"West Germany came from 2-0 down to beat Hungary 3-2."),
		q(model.DifficultyExpert, "Records", 50, "Who holds the record for most goals in a single World Cup tournament?",
			[]string{"Just Fontaine", "Gerd Muller", "Sandor Kocsis", "Miroslav Klose"}, "Just Fontaine",
			"Fontaine scored 13 goals for France in 1958."),
		q(model.DifficultyExpert, "Clubs", 50, "Which club was the first from Eastern Europe to win the European Cup?",
			[]string{"Red Star Belgrade", "Steaua Bucharest", "Dynamo Kyiv", "Legia Warsaw"}, "Steaua Bucharest",
			"Steaua beat Barcelona on penalties in 1986."),
		q(model.DifficultyExpert, "Records", 50, "Which player has made the most appearances in World Cup finals tournaments?",
			[]string{"Lothar Matthaus", "Lionel Messi", "Paolo Maldini", "Miroslav Klose"}, "Lionel Messi",
			"Messi reached 26 World Cup appearances in Qatar 2022."),
	}
}

// DefaultDataset 内置的小型足球数据集，完整数据通过 scripts/load_dataset.go 导入
func DefaultDataset() ([]model.Team, []model.Player, []model.Match) {
	teams := []model.Team{
		{ID: 1, Name: "Manchester City", ShortName: "MCI", Country: "England", City: "Manchester", Stadium: "Etihad Stadium", Founded: 1880},
		{ID: 2, Name: "Arsenal", ShortName: "ARS", Country: "England", City: "London", Stadium: "Emirates Stadium", Founded: 1886},
		{ID: 3, Name: "Liverpool", ShortName: "LIV", Country: "England", City: "Liverpool", Stadium: "Anfield", Founded: 1892},
		{ID: 4, Name: "Real Madrid", ShortName: "RMA", Country: "Spain", City: "Madrid", Stadium: "Santiago Bernabeu", Founded: 1902},
		{ID: 5, Name: "Barcelona", ShortName: "BAR", Country: "Spain", City: "Barcelona", Stadium: "Camp Nou", Founded: 1899},
		{ID: 6, Name: "Bayern Munich", ShortName: "BAY", Country: "Germany", City: "Munich", Stadium: "Allianz Arena", Founded: 1900},
		{ID: 7, Name: "Inter", ShortName: "INT", Country: "Italy", City: "Milan", Stadium: "San Siro", Founded: 1908},
		{ID: 8, Name: "Paris Saint-Germain", ShortName: "PSG", Country: "France", City: "Paris", Stadium: "Parc des Princes", Founded: 1970},
	}
	players := []model.Player{
		{ID: 1, TeamID: 1, Name: "Erling Haaland", Position: "Forward", Nationality: "Norway", Age: 23, Goals: 27, Assists: 5, Appearances: 31},
		{ID: 2, TeamID: 1, Name: "Phil Foden", Position: "Midfielder", Nationality: "England", Age: 23, Goals: 19, Assists: 8, Appearances: 35},
		{ID: 3, TeamID: 1, Name: "Rodri", Position: "Midfielder", Nationality: "Spain", Age: 27, Goals: 8, Assists: 9, Appearances: 34},
		{ID: 4, TeamID: 2, Name: "Bukayo Saka", Position: "Forward", Nationality: "England", Age: 22, Goals: 16, Assists: 9, Appearances: 35},
		{ID: 5, TeamID: 2, Name: "Martin Odegaard", Position: "Midfielder", Nationality: "Norway", Age: 25, Goals: 8, Assists: 10, Appearances: 35},
		{ID: 6, TeamID: 2, Name: "William Saliba", Position: "Defender", Nationality: "France", Age: 23, Goals: 2, Assists: 1, Appearances: 38},
		{ID: 7, TeamID: 3, Name: "Mohamed Salah", Position: "Forward", Nationality: "Egypt", Age: 31, Goals: 18, Assists: 10, Appearances: 32},
		{ID: 8, TeamID: 3, Name: "Virgil van Dijk", Position: "Defender", Nationality: "Netherlands", Age: 32, Goals: 2, Assists: 2, Appearances: 36},
		{ID: 9, TeamID: 3, Name: "Alisson Becker", Position: "Goalkeeper", Nationality: "Brazil", Age: 31, Goals: 0, Assists: 0, Appearances: 28},
		{ID: 10, TeamID: 4, Name: "Jude Bellingham", Position: "Midfielder", Nationality: "England", Age: 20, Goals: 19, Assists: 6, Appearances: 28},
		{ID: 11, TeamID: 4, Name: "Vinicius Junior", Position: "Forward", Nationality: "Brazil", Age: 23, Goals: 15, Assists: 5, Appearances: 26},
		{ID: 12, TeamID: 4, Name: "Thibaut Courtois", Position: "Goalkeeper", Nationality: "Belgium", Age: 31, Goals: 0, Assists: 0, Appearances: 5},
		{ID: 13, TeamID: 5, Name: "Robert Lewandowski", Position: "Forward", Nationality: "Poland", Age: 35, Goals: 19, Assists: 8, Appearances: 35},
		{ID: 14, TeamID: 5, Name: "Pedri", Position: "Midfielder", Nationality: "Spain", Age: 21, Goals: 4, Assists: 4, Appearances: 24},
		{ID: 15, TeamID: 5, Name: "Lamine Yamal", Position: "Forward", Nationality: "Spain", Age: 16, Goals: 5, Assists: 6, Appearances: 37},
		{ID: 16, TeamID: 6, Name: "Harry Kane", Position: "Forward", Nationality: "England", Age: 30, Goals: 36, Assists: 8, Appearances: 32},
		{ID: 17, TeamID: 6, Name: "Jamal Musiala", Position: "Midfielder", Nationality: "Germany", Age: 21, Goals: 10, Assists: 6, Appearances: 25},
		{ID: 18, TeamID: 6, Name: "Manuel Neuer", Position: "Goalkeeper", Nationality: "Germany", Age: 38, Goals: 0, Assists: 0, Appearances: 27},
		{ID: 19, TeamID: 7, Name: "Lautaro Martinez", Position: "Forward", Nationality: "Argentina", Age: 26, Goals: 24, Assists: 3, Appearances: 33},
		{ID: 20, TeamID: 7, Name: "Nicolo Barella", Position: "Midfielder", Nationality: "Italy", Age: 27, Goals: 2, Assists: 5, Appearances: 34},
		{ID: 21, TeamID: 7, Name: "Alessandro Bastoni", Position: "Defender", Nationality: "Italy", Age: 25, Goals: 1, Assists: 4, Appearances: 29},
		{ID: 22, TeamID: 8, Name: "Kylian Mbappe", Position: "Forward", Nationality: "France", Age: 25, Goals: 27, Assists: 7, Appearances: 29},
		{ID: 23, TeamID: 8, Name: "Ousmane Dembele", Position: "Forward", Nationality: "France", Age: 27, Goals: 3, Assists: 8, Appearances: 26},
		{ID: 24, TeamID: 8, Name: "Marquinhos", Position: "Defender", Nationality: "Brazil", Age: 30, Goals: 1, Assists: 0, Appearances: 24},
	}
	matches := []model.Match{
		{ID: 1, Season: "2023-2024", MatchDate: "2023-10-08", HomeTeamID: 2, AwayTeamID: 1, HomeGoals: 1, AwayGoals: 0, Attendance: 60140},
		{ID: 2, Season: "2023-2024", MatchDate: "2023-11-25", HomeTeamID: 1, AwayTeamID: 3, HomeGoals: 1, AwayGoals: 1, Attendance: 53245},
		{ID: 3, Season: "2023-2024", MatchDate: "2023-12-23", HomeTeamID: 3, AwayTeamID: 2, HomeGoals: 1, AwayGoals: 1, Attendance: 57423},
		{ID: 4, Season: "2023-2024", MatchDate: "2024-02-04", HomeTeamID: 2, AwayTeamID: 3, HomeGoals: 3, AwayGoals: 1, Attendance: 60215},
		{ID: 5, Season: "2023-2024", MatchDate: "2024-03-10", HomeTeamID: 3, AwayTeamID: 1, HomeGoals: 1, AwayGoals: 1, Attendance: 57479},
		{ID: 6, Season: "2023-2024", MatchDate: "2024-03-31", HomeTeamID: 1, AwayTeamID: 2, HomeGoals: 0, AwayGoals: 0, Attendance: 53441},
		{ID: 7, Season: "2023-2024", MatchDate: "2023-10-28", HomeTeamID: 5, AwayTeamID: 4, HomeGoals: 1, AwayGoals: 2, Attendance: 50112},
		{ID: 8, Season: "2023-2024", MatchDate: "2024-04-21", HomeTeamID: 4, AwayTeamID: 5, HomeGoals: 3, AwayGoals: 2, Attendance: 78483},
		{ID: 9, Season: "2023-2024", MatchDate: "2024-04-09", HomeTeamID: 4, AwayTeamID: 1, HomeGoals: 3, AwayGoals: 3, Attendance: 74897},
		{ID: 10, Season: "2023-2024", MatchDate: "2024-04-17", HomeTeamID: 1, AwayTeamID: 4, HomeGoals: 1, AwayGoals: 1, Attendance: 52540},
		{ID: 11, Season: "2023-2024", MatchDate: "2024-04-09", HomeTeamID: 8, AwayTeamID: 5, HomeGoals: 2, AwayGoals: 3, Attendance: 47829},
		{ID: 12, Season: "2023-2024", MatchDate: "2024-04-16", HomeTeamID: 5, AwayTeamID: 8, HomeGoals: 1, AwayGoals: 4, Attendance: 49461},
		{ID: 13, Season: "2023-2024", MatchDate: "2024-05-01", HomeTeamID: 6, AwayTeamID: 4, HomeGoals: 2, AwayGoals: 2, Attendance: 75000},
		{ID: 14, Season: "2023-2024", MatchDate: "2024-05-08", HomeTeamID: 4, AwayTeamID: 6, HomeGoals: 2, AwayGoals: 1, Attendance: 78548},
		{ID: 15, Season: "2022-2023", MatchDate: "2023-06-10", HomeTeamID: 1, AwayTeamID: 7, HomeGoals: 1, AwayGoals: 0, Attendance: 71412},
		{ID: 16, Season: "2022-2023", MatchDate: "2023-05-17", HomeTeamID: 1, AwayTeamID: 4, HomeGoals: 4, AwayGoals: 0, Attendance: 52313},
	}
	return teams, players, matches
}

func SeedDefaults(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Question{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		questions := DefaultQuestions()
		if err := db.CreateInBatches(&questions, 50).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&model.Team{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return SeedDataset(db)
	}
	return nil
}

// SeedDataset 写入内置数据集
func SeedDataset(db *gorm.DB) error {
	teams, players, matches := DefaultDataset()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&teams).Error; err != nil {
			return err
		}
		if err := tx.Create(&players).Error; err != nil {
			return err
		}
		return tx.Create(&matches).Error
	})
}
