package migrations

import (
	"io/fs"
	"testing"
)

func TestEveryDialectHasMatchingMigrations(t *testing.T) {
	var want []string
	for _, dialect := range []string{"postgres", "mysql", "sqllite3"} {
		entries, err := fs.ReadDir(FS, dialect)
		if err != nil {
			t.Fatalf("%s: %v", dialect, err)
		}
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		if want == nil {
			want = names
			continue
		}
		if len(names) != len(want) {
			t.Fatalf("%s has %v, postgres has %v", dialect, names, want)
		}
		for i := range names {
			if names[i] != want[i] {
				t.Errorf("%s: %s does not match %s", dialect, names[i], want[i])
			}
		}
	}
}
