package service

import (
	"context"

	"microchat/internal/repository"
)

type TablesService interface {
	GetCountTablesDB() (int, error)
	GetRowCounts(ctx context.Context) (map[string]int, error)
}

type tablesService struct {
	tablesRepo repository.TablesRepository
}

func NewTablesService(tablesRepo repository.TablesRepository) TablesService {
	return &tablesService{tablesRepo: tablesRepo}
}

func (t *tablesService) GetCountTablesDB() (int, error) {
	countTables, err := t.tablesRepo.CountTablesDB()
	if err != nil {
		return 0, err
	}

	return countTables, nil
}

func (t *tablesService) GetRowCounts(ctx context.Context) (map[string]int, error) {
	return t.tablesRepo.RowCounts(ctx)
}
