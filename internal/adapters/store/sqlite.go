package store

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDriverName is the mattn driver registered with a Unicode LOWER().
const sqliteDriverName = "sqlite3_quotevault"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// The built-in lower() folds ASCII only, so "ÁNIMO" would never
			// match a search for "ánimo".
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

// unicodeLower lowercases TEXT and BLOB values and passes NULL through.
func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		if s == nil {
			return nil
		}

		return strings.ToLower(string(s))
	default:
		return v
	}
}

func openSQLite(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
}
