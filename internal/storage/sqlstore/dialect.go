package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Driver names as registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

type dialect struct {
	name              string
	numbered          bool // $1, $2 ... instead of ?
	upsertTranslation string
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverPostgres, "postgres":
		return dialect{name: DriverPostgres, numbered: true, upsertTranslation: upsertTranslationPostgresSQL}, nil
	case DriverMySQL:
		return dialect{name: DriverMySQL, upsertTranslation: upsertTranslationMySQLSQL}, nil
	}
	return dialect{}, fmt.Errorf("unsupported sql driver %q", driver)
}

// rebind rewrites ? placeholders for numbered dialects. Queries in this
// package never carry a literal ? inside a string.
func (d dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
