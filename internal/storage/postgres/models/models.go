package models

import (
	"strings"

	"movielib/proj/internal/storage/postgres"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Models struct {
	Movie   *MovieModel
	Comment *CommentModel
	User    *UserModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		Movie:   &MovieModel{db.Conn},
		Comment: &CommentModel{db.Conn},
		User:    &UserModel{db.Conn},
	}
}

func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
