package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"football_iq_backend/internal/model"
	"football_iq_backend/internal/repository"
	"football_iq_backend/pkg/logger"
	"io"
	"reflect"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DatasetLoader 从存储读取 teams.csv / players.csv / matches.csv 按主键覆盖写入数据集表
type DatasetLoader struct {
	Storage *StorageService
	Repo    *repository.DatasetRepository
}

func NewDatasetLoader(storage *StorageService, repo *repository.DatasetRepository) *DatasetLoader {
	return &DatasetLoader{Storage: storage, Repo: repo}
}

type LoadSummary struct {
	Teams   int `json:"teams"`
	Players int `json:"players"`
	Matches int `json:"matches"`
}

func (l *DatasetLoader) Load(ctx context.Context) (*LoadSummary, error) {
	var teams []model.Team
	var players []model.Player
	var matches []model.Match

	if err := l.readFile(ctx, "teams.csv", &teams); err != nil {
		return nil, err
	}
	if err := l.readFile(ctx, "players.csv", &players); err != nil {
		return nil, err
	}
	if err := l.readFile(ctx, "matches.csv", &matches); err != nil {
		return nil, err
	}

	if err := l.Repo.ReplaceDataset(ctx, teams, players, matches); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}

	summary := &LoadSummary{Teams: len(teams), Players: len(players), Matches: len(matches)}
	logger.Log.Info("Dataset loaded",
		zap.String("source", l.Storage.Provider.Name()),
		zap.Int("teams", summary.Teams),
		zap.Int("players", summary.Players),
		zap.Int("matches", summary.Matches),
	)
	return summary, nil
}

func (l *DatasetLoader) readFile(ctx context.Context, name string, out interface{}) error {
	rc, err := l.Storage.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	if err := DecodeCSV(rc, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// DecodeCSV 按表头与结构体 csv 标签对应解码到 *[]T，未知列忽略
func DecodeCSV(r io.Reader, out interface{}) error {
	sliceVal := reflect.ValueOf(out)
	if sliceVal.Kind() != reflect.Ptr || sliceVal.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("DecodeCSV: expected pointer to slice, got %T", out)
	}
	sliceVal = sliceVal.Elem()
	elemType := sliceVal.Type().Elem()

	fieldByTag := make(map[string]int, elemType.NumField())
	for i := 0; i < elemType.NumField(); i++ {
		if tag := elemType.Field(i).Tag.Get("csv"); tag != "" && tag != "-" {
			fieldByTag[tag] = i
		}
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	columns := make([]int, len(header))
	for i, h := range header {
		idx, ok := fieldByTag[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			idx = -1
		}
		columns[i] = idx
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return err
		}

		elem := reflect.New(elemType).Elem()
		for i, raw := range record {
			if i >= len(columns) || columns[i] < 0 {
				continue
			}
			if err := setField(elem.Field(columns[i]), strings.TrimSpace(raw)); err != nil {
				return fmt.Errorf("line %d column %q: %w", line, header[i], err)
			}
		}
		sliceVal.Set(reflect.Append(sliceVal, elem))
	}
}

func setField(f reflect.Value, raw string) error {
	switch f.Kind() {
	case reflect.String:
		f.SetString(raw)
	case reflect.Int, reflect.Int64, reflect.Int32:
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		f.SetInt(v)
	case reflect.Uint, reflect.Uint64, reflect.Uint32:
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		f.SetUint(v)
	case reflect.Float64, reflect.Float32:
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		f.SetFloat(v)
	default:
		return fmt.Errorf("unsupported field kind %s", f.Kind())
	}
	return nil
}
