package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SchemaTables lists the tables created by the migrations.
var SchemaTables = []string{"user", "followers", "chat", "user_chats", "post", "news", "user_news", "invitation"}

type tablesRepository struct {
	db *sqlx.DB
}

func NewTablesRepository(db *sqlx.DB) TablesRepository {
	return &tablesRepository{db: db}
}

func (r *tablesRepository) CountTablesDB() (int, error) {
	var count int

	err := r.db.Get(&count, `
			SELECT COUNT(*)
			FROM information_schema.tables
			WHERE table_schema = 'public'
		`)

	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте таблиц базы данных: %w", err)
	}

	return count, nil
}

// RowCounts returns the number of rows in every schema table.
func (r *tablesRepository) RowCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(SchemaTables))

	for _, table := range SchemaTables {
		var count int
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %q`, table)
		if err := r.db.GetContext(ctx, &count, query); err != nil {
			return nil, fmt.Errorf("ошибка при подсчёте строк таблицы %s: %w", table, err)
		}
		counts[table] = count
	}

	return counts, nil
}
