package migration

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var embedded embed.FS

// Embedded returns the schema migrations compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
