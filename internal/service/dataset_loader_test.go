package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"football_iq_backend/internal/config"
	"football_iq_backend/internal/model"
	"football_iq_backend/internal/repository"
)

func TestDecodeCSV(t *testing.T) {
	input := "ID, Team_ID ,Name,Position,shirt_colour,Goals\n" +
		"1,2,Bukayo Saka,Forward,red,14\n" +
		"2,2,\"Odegaard, Martin\",Midfielder,red,\n"

	var players []model.Player
	if err := DecodeCSV(strings.NewReader(input), &players); err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("got %d players", len(players))
	}
	if p := players[0]; p.ID != 1 || p.TeamID != 2 || p.Name != "Bukayo Saka" || p.Goals != 14 {
		t.Fatalf("first player = %+v", p)
	}
	if p := players[1]; p.Name != "Odegaard, Martin" || p.Goals != 0 {
		t.Fatalf("second player = %+v", p)
	}
}

func TestDecodeCSVErrors(t *testing.T) {
	var players []model.Player
	err := DecodeCSV(strings.NewReader("id,goals\n1,many\n"), &players)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("bad integer err = %v", err)
	}

	if err := DecodeCSV(strings.NewReader("id\n1\n"), players); err == nil {
		t.Fatal("non-pointer target should fail")
	}

	var empty []model.Team
	if err := DecodeCSV(strings.NewReader(""), &empty); err != nil || len(empty) != 0 {
		t.Fatalf("empty input = %v, %v", empty, err)
	}
}

func writeDatasetFiles(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"teams.csv": "id,name,short_name,country,city,stadium,founded\n" +
			"1,Arsenal,ARS,England,London,Emirates Stadium,1886\n" +
			"2,Celtic,CEL,Scotland,Glasgow,Celtic Park,1887\n",
		"players.csv": "id,team_id,name,position,nationality,age,goals,assists,appearances\n" +
			"1,1,Bukayo Saka,Forward,England,24,14,10,35\n" +
			"2,2,Callum McGregor,Midfielder,Scotland,32,3,6,38\n" +
			"100,2,Kyogo Furuhashi,Forward,Japan,30,19,4,33\n",
		"matches.csv": "id,season,match_date,home_team_id,away_team_id,home_goals,away_goals,attendance\n" +
			"1,2024-2025,2024-09-17,1,2,2,1,60000\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestDatasetLoaderUpsertsByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dir := writeDatasetFiles(t)

	storage, err := NewStorageService(&config.StorageConfig{Type: "local", LocalPath: dir})
	if err != nil {
		t.Fatalf("NewStorageService: %v", err)
	}
	repo := repository.NewDatasetRepository(env.db)
	summary, err := NewDatasetLoader(storage, repo).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if summary.Teams != 2 || summary.Players != 3 || summary.Matches != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	counts, err := repo.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts: %v", err)
	}
	// 已有主键被覆盖，新主键追加
	if counts["teams"] != 8 || counts["players"] != 25 || counts["matches"] != 16 {
		t.Fatalf("counts = %v", counts)
	}

	res, err := repo.Execute(ctx, "SELECT name, team_id FROM players WHERE id IN (1, 100) ORDER BY id", 10)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.RowCount != 2 || res.Rows[0]["name"] != "Bukayo Saka" || res.Rows[1]["name"] != "Kyogo Furuhashi" {
		t.Fatalf("rows = %+v", res.Rows)
	}
}

func TestDatasetLoaderMissingFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dir := writeDatasetFiles(t)
	if err := os.Remove(filepath.Join(dir, "matches.csv")); err != nil {
		t.Fatal(err)
	}

	storage, _ := NewStorageService(&config.StorageConfig{Type: "local", LocalPath: dir})
	repo := repository.NewDatasetRepository(env.db)
	if _, err := NewDatasetLoader(storage, repo).Load(ctx); err == nil || !strings.Contains(err.Error(), "matches.csv") {
		t.Fatalf("missing file err = %v", err)
	}

	// 读取失败时原有数据保持不变
	counts, _ := repo.TableCounts(ctx)
	if counts["players"] != 24 {
		t.Fatalf("players = %d, want seeded 24", counts["players"])
	}
}
