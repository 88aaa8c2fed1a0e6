package repository

import (
	"context"
	"database/sql"
	"football_iq_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DatasetRepository struct {
	DB *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) *DatasetRepository {
	return &DatasetRepository{DB: db}
}

// Execute 在只读事务中执行查询，最多保留 maxRows 行，但会统计全部行数
func (r *DatasetRepository) Execute(ctx context.Context, query string, maxRows int) (*model.QueryResult, error) {
	result := &model.QueryResult{
		Columns: []string{},
		Rows:    []map[string]interface{}{},
	}
	start := time.Now()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := tx.Raw(query).Rows()
		if err != nil {
			return err
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			return err
		}
		result.Columns = columns

		for rows.Next() {
			result.RowCount++
			if len(result.Rows) >= maxRows {
				result.Truncated = true
				continue
			}

			values := make([]interface{}, len(columns))
			pointers := make([]interface{}, len(columns))
			for i := range values {
				pointers[i] = &values[i]
			}
			if err := rows.Scan(pointers...); err != nil {
				return err
			}

			row := make(map[string]interface{}, len(columns))
			for i, col := range columns {
				row[col] = normalizeValue(values[i])
			}
			result.Rows = append(result.Rows, row)
		}
		return rows.Err()
	}, &sql.TxOptions{ReadOnly: true})

	result.ExecutionTime = time.Since(start).Milliseconds()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		return string(val)
	default:
		return val
	}
}

// TableCounts 各数据集表的行数
func (r *DatasetRepository) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(model.DatasetTables))
	for _, table := range model.DatasetTables {
		var count int64
		if err := r.DB.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			return nil, err
		}
		counts[table] = count
	}
	return counts, nil
}

// ReplaceDataset 在一个事务内按主键覆盖写入数据集，失败整体回滚
func (r *DatasetRepository) ReplaceDataset(ctx context.Context, teams []model.Team, players []model.Player, matches []model.Match) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{UpdateAll: true}
		if len(teams) > 0 {
			if err := tx.Clauses(upsert).CreateInBatches(&teams, 200).Error; err != nil {
				return err
			}
		}
		if len(players) > 0 {
			if err := tx.Clauses(upsert).CreateInBatches(&players, 200).Error; err != nil {
				return err
			}
		}
		if len(matches) > 0 {
			if err := tx.Clauses(upsert).CreateInBatches(&matches, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
